package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"schematic-editor/internal/circuit/grid"
	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Serialization
// ============================================================

const FormatVersion = "1.0"

const MsgLoadFailed = "Failed to load circuit design file"

var ErrInvalidDesign = errors.New("invalid circuit design file format")

// File: формат сохраняемого файла.
type File struct {
	Components []models.Component `json:"components"`
	Wires      []models.Wire      `json:"wires"`
	Version    string             `json:"version"`
}

// ExportFilename: имя файла для скачивания.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("circuit-design-%s.json", t.Format("2006-01-02"))
}

// CircuitJSON сериализует текущую схему с отступом в два пробела.
func (s *Store) CircuitJSON() (string, error) {
	d := s.design.Clone()
	data, err := json.MarshalIndent(File{
		Components: d.Components,
		Wires:      d.Wires,
		Version:    FormatVersion,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal design: %w", err)
	}
	return string(data), nil
}

// LoadDesign разбирает файл, перевыдает все ID и заменяет документ.
// При ошибке документ не меняется, а в находках остается одна ошибка загрузки.
func (s *Store) LoadDesign(data []byte) error {
	parsed, err := ParseFile(data)
	if err != nil {
		s.validation = []models.ValidationError{{
			Type:    models.SeverityError,
			Message: MsgLoadFailed,
		}}
		return err
	}

	s.SaveToHistory()
	s.design = s.rekey(parsed)

	s.selectedComponent = ""
	s.selectedWire = ""
	s.drag = nil
	s.wireMode = false
	s.resetPath()
	s.validation = []models.ValidationError{}
	s.active = make(map[string]struct{})
	return nil
}

// rawFile нужен, чтобы отличить отсутствующий/не-массив от пустого массива.
type rawFile struct {
	Components json.RawMessage `json:"components"`
	Wires      json.RawMessage `json:"wires"`
}

// ParseFile проверяет структуру файла. ID не меняются.
func ParseFile(data []byte) (models.Design, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Design{}, fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}
	if !isArray(raw.Components) {
		return models.Design{}, fmt.Errorf("%w: components must be an array", ErrInvalidDesign)
	}
	if !isArray(raw.Wires) {
		return models.Design{}, fmt.Errorf("%w: wires must be an array", ErrInvalidDesign)
	}

	d := models.NewDesign()
	if err := json.Unmarshal(raw.Components, &d.Components); err != nil {
		return models.Design{}, fmt.Errorf("%w: components: %v", ErrInvalidDesign, err)
	}
	if err := json.Unmarshal(raw.Wires, &d.Wires); err != nil {
		return models.Design{}, fmt.Errorf("%w: wires: %v", ErrInvalidDesign, err)
	}

	for i, c := range d.Components {
		if !c.Type.Valid() {
			return models.Design{}, fmt.Errorf("%w: component %d: unknown type %q", ErrInvalidDesign, i, c.Type)
		}
	}
	for i, w := range d.Wires {
		if w.Points == nil {
			return models.Design{}, fmt.Errorf("%w: wire %d: points must be an array", ErrInvalidDesign, i)
		}
	}
	return d, nil
}

func isArray(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// rekey выдает новые ID компонентам и проводам, переназначает ссылки точек
// и привязывает все координаты к сетке.
func (s *Store) rekey(d models.Design) models.Design {
	next := s.ids.Batch()
	mapping := make(map[string]string, len(d.Components))

	out := models.Design{
		Components: make([]models.Component, 0, len(d.Components)),
		Wires:      make([]models.Wire, 0, len(d.Wires)),
	}

	for i, c := range d.Components {
		newID := next(string(c.Type), i)
		mapping[c.ID] = newID
		c.ID = newID
		c.Position = grid.Snap(c.Position)
		c.Position.ComponentID = ""
		out.Components = append(out.Components, c)
	}

	for i, w := range d.Wires {
		points := make([]models.Point, len(w.Points))
		for j, p := range w.Points {
			p = grid.Snap(p)
			if p.ComponentID != "" {
				p.ComponentID = mapping[p.ComponentID]
			}
			points[j] = p
		}
		out.Wires = append(out.Wires, models.Wire{
			ID:         next(models.WireTool, i),
			Points:     points,
			IsFreePath: w.IsFreePath,
		})
	}

	return out
}
