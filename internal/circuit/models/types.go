package models

// ============================================================
// Geometry primitives
// ============================================================

// Point: координата в единицах сетки. ComponentID заполняется только у концов
// провода, привязанных к выводу компонента.
type Point struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ComponentID string  `json:"componentId,omitempty"`
}

// Anchored сообщает, привязана ли точка к компоненту.
func (p Point) Anchored() bool {
	return p.ComponentID != ""
}

// SameCoords сравнивает только координаты.
func (p Point) SameCoords(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// ============================================================
// Design document
// ============================================================

type Component struct {
	ID       string        `json:"id"`
	Type     ComponentType `json:"type"`
	Position Point         `json:"position"`
	Rotation int           `json:"rotation"`
	Value    string        `json:"value,omitempty"`
}

type Wire struct {
	ID         string  `json:"id"`
	Points     []Point `json:"points"`
	IsFreePath bool    `json:"isFreePath,omitempty"`
}

// References сообщает, ссылается ли хотя бы одна точка провода на компонент.
func (w Wire) References(componentID string) bool {
	for _, p := range w.Points {
		if p.ComponentID == componentID {
			return true
		}
	}
	return false
}

// ComponentIDs возвращает уникальные ID компонентов, на которые ссылается провод,
// в порядке первого появления.
func (w Wire) ComponentIDs() []string {
	var ids []string
	seen := make(map[string]struct{}, len(w.Points))
	for _, p := range w.Points {
		if p.ComponentID == "" {
			continue
		}
		if _, ok := seen[p.ComponentID]; ok {
			continue
		}
		seen[p.ComponentID] = struct{}{}
		ids = append(ids, p.ComponentID)
	}
	return ids
}

// Design: корневой агрегат: компоненты и провода текущей схемы.
type Design struct {
	Components []Component `json:"components"`
	Wires      []Wire      `json:"wires"`
}

// NewDesign создает пустую схему с непустыми срезами (в JSON [] вместо null).
func NewDesign() Design {
	return Design{
		Components: []Component{},
		Wires:      []Wire{},
	}
}

// Clone делает глубокую независимую копию.
func (d Design) Clone() Design {
	out := Design{
		Components: make([]Component, len(d.Components)),
		Wires:      make([]Wire, len(d.Wires)),
	}
	copy(out.Components, d.Components)
	for i, w := range d.Wires {
		w.Points = append([]Point(nil), w.Points...)
		if w.Points == nil {
			w.Points = []Point{}
		}
		out.Wires[i] = w
	}
	return out
}

// Component ищет компонент по ID.
func (d Design) Component(id string) (Component, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// ============================================================
// Validation findings
// ============================================================

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type ValidationError struct {
	Type        Severity `json:"type"`
	Message     string   `json:"message"`
	ComponentID string   `json:"componentId,omitempty"`
}
