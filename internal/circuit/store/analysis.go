package store

import (
	"schematic-editor/internal/circuit/graph"
	"schematic-editor/internal/circuit/models"
)

// ValidateCircuit заменяет находки результатом рекомендательной проверки.
func (s *Store) ValidateCircuit() []models.ValidationError {
	s.validation = graph.Validate(s.design)
	return s.ValidationErrors()
}

// SimulateCircuit пересчитывает множество активных компонентов.
// Если нет источника или земли, множество остается прежним.
func (s *Store) SimulateCircuit() graph.SimulationResult {
	res := graph.Simulate(s.design)
	s.validation = append([]models.ValidationError{}, res.Findings...)
	if !res.Computed {
		return res
	}
	s.active = make(map[string]struct{}, len(res.Active))
	for _, id := range res.Active {
		s.active[id] = struct{}{}
	}
	return res
}
