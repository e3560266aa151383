package graph

import (
	"fmt"

	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Validation & simulation
// ============================================================

const (
	MsgEmptyCircuit   = "Circuit is empty"
	MsgNoSource       = "Circuit needs at least one voltage source"
	MsgNoGround       = "Circuit needs at least one ground connection"
	MsgNoCompletePath = "No complete circuit path found between voltage source and ground"
)

// Validate: рекомендательная проверка: пустая схема и «висящие» компоненты.
func Validate(d models.Design) []models.ValidationError {
	findings := []models.ValidationError{}

	if len(d.Components) == 0 {
		findings = append(findings, models.ValidationError{
			Type:    models.SeverityWarning,
			Message: MsgEmptyCircuit,
		})
	}

	for _, comp := range d.Components {
		connected := false
		for _, w := range d.Wires {
			if w.References(comp.ID) {
				connected = true
				break
			}
		}
		if !connected {
			findings = append(findings, models.ValidationError{
				Type:        models.SeverityWarning,
				Message:     fmt.Sprintf("%s is not connected to any other component", comp.Type),
				ComponentID: comp.ID,
			})
		}
	}

	return findings
}

// SimulationResult: результат проверки достижимости.
// Computed = false, если не хватает источника или земли; Active тогда не вычисляется.
type SimulationResult struct {
	Active   []string                 `json:"active"`
	Findings []models.ValidationError `json:"findings"`
	Computed bool                     `json:"computed"`
}

// Simulate ищет компоненты, лежащие в одной связной области с источником и землей.
func Simulate(d models.Design) SimulationResult {
	var sources []string
	hasGround := false
	for _, comp := range d.Components {
		if comp.Type.IsVoltageSource() {
			sources = append(sources, comp.ID)
		}
		if comp.Type.IsGround() {
			hasGround = true
		}
	}

	if len(sources) == 0 {
		return SimulationResult{Findings: []models.ValidationError{{
			Type:    models.SeverityError,
			Message: MsgNoSource,
		}}}
	}
	if !hasGround {
		return SimulationResult{Findings: []models.ValidationError{{
			Type:    models.SeverityError,
			Message: MsgNoGround,
		}}}
	}

	conn := Build(d)
	active := make(map[string]struct{})
	for _, src := range sources {
		if _, done := active[src]; done {
			continue
		}
		closure := conn.Closure(src)
		if !conn.containsGround(closure) {
			continue
		}
		for _, id := range closure {
			active[id] = struct{}{}
		}
	}

	res := SimulationResult{
		Active:   sortedKeys(active),
		Findings: []models.ValidationError{},
		Computed: true,
	}
	if len(active) == 0 {
		res.Findings = append(res.Findings, models.ValidationError{
			Type:    models.SeverityWarning,
			Message: MsgNoCompletePath,
		})
	}
	return res
}
