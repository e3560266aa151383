package store

import (
	"errors"
	"sort"
	"time"

	"schematic-editor/internal/circuit/grid"
	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Store
// ============================================================

// DefaultPosition: точка появления нового компонента.
var DefaultPosition = models.Point{X: 400, Y: 300}

var ErrUnknownType = errors.New("unknown component type")

type Options struct {
	// HistoryLimit ограничивает глубину undo; 0 значит без ограничения.
	HistoryLimit int
	// Now: источник времени для ID (в тестах подменяется).
	Now func() time.Time
}

// Store владеет текущей схемой, историей, состоянием рисования проводов и
// производными данными (находки проверки, активные компоненты).
// Не потокобезопасен: вызывающий код обеспечивает одного писателя.
type Store struct {
	design  models.Design
	history history
	ids     *IDGenerator

	selectedComponent string
	selectedWire      string
	showGrid          bool

	wireMode   bool
	drag       *WireDrag
	wirePoints []models.Point
	isDrawing  bool

	// pathSnapshot: снимок первого клика ломаной еще на вершине past;
	// pathFuture хранит redo-стек, сброшенный этим снимком.
	pathSnapshot bool
	pathFuture   []models.Design

	validation []models.ValidationError
	active     map[string]struct{}
}

func New(opts Options) *Store {
	return &Store{
		design:     models.NewDesign(),
		history:    history{limit: opts.HistoryLimit},
		ids:        NewIDGenerator(opts.Now),
		showGrid:   true,
		validation: []models.ValidationError{},
		active:     make(map[string]struct{}),
	}
}

// Design возвращает независимую копию текущего документа.
func (s *Store) Design() models.Design {
	return s.design.Clone()
}

func (s *Store) indexOfComponent(id string) int {
	for i, c := range s.design.Components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfWire(id string) int {
	for i, w := range s.design.Wires {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// ============================================================
// Mutation API
// ============================================================

// AddComponent создает компонент в позиции по умолчанию и выделяет его.
// Явное значение важнее значения по умолчанию для типа.
func (s *Store) AddComponent(t models.ComponentType, value string) (models.Component, error) {
	if !t.Valid() {
		return models.Component{}, ErrUnknownType
	}
	s.SaveToHistory()

	if value == "" {
		value = t.DefaultValue()
	}
	c := models.Component{
		ID:       s.ids.Next(string(t)),
		Type:     t,
		Position: grid.Snap(DefaultPosition),
		Rotation: 0,
		Value:    value,
	}
	s.design.Components = append(s.design.Components, c)
	s.selectedComponent = c.ID
	return c, nil
}

// ComponentUpdate: частичное обновление; nil-поля не трогаются.
type ComponentUpdate struct {
	Position *models.Point
	Rotation *int
	Value    *string
}

// UpdateComponent сливает поля в компонент. Позиция всегда привязывается к сетке.
// История не сохраняется: перетаскивание шлет это на каждое движение мыши.
func (s *Store) UpdateComponent(id string, u ComponentUpdate) bool {
	i := s.indexOfComponent(id)
	if i < 0 {
		return false
	}
	c := s.design.Components[i]
	if u.Position != nil {
		pos := grid.Snap(*u.Position)
		pos.ComponentID = ""
		c.Position = pos
	}
	if u.Rotation != nil {
		c.Rotation = *u.Rotation
	}
	if u.Value != nil {
		c.Value = *u.Value
	}
	s.design.Components[i] = c
	return true
}

// EditComponent: правка свойств из панели: отдельный шаг истории на каждую правку.
func (s *Store) EditComponent(id string, u ComponentUpdate) bool {
	if s.indexOfComponent(id) < 0 {
		return false
	}
	s.SaveToHistory()
	return s.UpdateComponent(id, u)
}

// BeginComponentDrag фиксирует один шаг истории на весь жест перетаскивания и
// выделяет компонент. Последующие UpdateComponent историю не трогают.
func (s *Store) BeginComponentDrag(id string) bool {
	if s.indexOfComponent(id) < 0 {
		return false
	}
	s.SaveToHistory()
	s.selectedComponent = id
	return true
}

// DeleteComponent удаляет компонент вместе со всеми проводами, которые на него ссылаются.
func (s *Store) DeleteComponent(id string) bool {
	i := s.indexOfComponent(id)
	if i < 0 {
		return false
	}
	s.SaveToHistory()

	components := make([]models.Component, 0, len(s.design.Components)-1)
	components = append(components, s.design.Components[:i]...)
	components = append(components, s.design.Components[i+1:]...)

	wires := make([]models.Wire, 0, len(s.design.Wires))
	for _, w := range s.design.Wires {
		if w.References(id) {
			if w.ID == s.selectedWire {
				s.selectedWire = ""
			}
			continue
		}
		wires = append(wires, w)
	}

	s.design = models.Design{Components: components, Wires: wires}
	if s.selectedComponent == id {
		s.selectedComponent = ""
	}
	if s.drag != nil && s.drag.From.ComponentID == id {
		s.drag = nil
	}
	return true
}

// RotateComponent поворачивает на 90° по часовой. Отменяемая операция.
func (s *Store) RotateComponent(id string) bool {
	i := s.indexOfComponent(id)
	if i < 0 {
		return false
	}
	s.SaveToHistory()
	s.design.Components[i].Rotation = (s.design.Components[i].Rotation + 90) % 360
	return true
}

func (s *Store) DeleteWire(id string) bool {
	i := s.indexOfWire(id)
	if i < 0 {
		return false
	}
	s.SaveToHistory()

	wires := make([]models.Wire, 0, len(s.design.Wires)-1)
	wires = append(wires, s.design.Wires[:i]...)
	wires = append(wires, s.design.Wires[i+1:]...)
	s.design.Wires = wires
	s.selectedWire = ""
	return true
}

// ClearDesign заменяет документ пустым. Предыдущий документ уходит в историю.
func (s *Store) ClearDesign() {
	s.SaveToHistory()
	s.design = models.NewDesign()
	s.selectedComponent = ""
	s.selectedWire = ""
	s.drag = nil
}

// ============================================================
// Selection & view toggles
// ============================================================

// SelectComponent выделяет компонент; пустой ID снимает выделение.
func (s *Store) SelectComponent(id string) {
	if id != "" && s.indexOfComponent(id) < 0 {
		return
	}
	s.selectedComponent = id
}

// ToggleWireSelect выделяет провод или снимает выделение при повторном вызове.
func (s *Store) ToggleWireSelect(id string) {
	if s.selectedWire == id {
		s.selectedWire = ""
		return
	}
	if id != "" && s.indexOfWire(id) < 0 {
		return
	}
	s.selectedWire = id
}

func (s *Store) ToggleGrid() bool {
	s.showGrid = !s.showGrid
	return s.showGrid
}

func (s *Store) SelectedComponent() string { return s.selectedComponent }

func (s *Store) SelectedWire() string { return s.selectedWire }

// ============================================================
// Derived state
// ============================================================

func (s *Store) SetComponentActive(id string, active bool) {
	if active {
		s.active[id] = struct{}{}
		return
	}
	delete(s.active, id)
}

func (s *Store) IsActive(id string) bool {
	_, ok := s.active[id]
	return ok
}

// ActiveComponents: отсортированный список активных компонентов.
func (s *Store) ActiveComponents() []string {
	out := make([]string, 0, len(s.active))
	for id := range s.active {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Store) ValidationErrors() []models.ValidationError {
	return append([]models.ValidationError{}, s.validation...)
}

func (s *Store) ClearValidation() {
	s.validation = []models.ValidationError{}
}

// ============================================================
// Read-only view
// ============================================================

// State: снимок всего, что нужно для отрисовки.
type State struct {
	Design            models.Design            `json:"design"`
	SelectedComponent string                   `json:"selectedComponent,omitempty"`
	SelectedWire      string                   `json:"selectedWire,omitempty"`
	ShowGrid          bool                     `json:"showGrid"`
	WireMode          bool                     `json:"wireMode"`
	DraggingWire      *WireDrag                `json:"draggingWire,omitempty"`
	IsDrawing         bool                     `json:"isDrawing"`
	WirePoints        []models.Point           `json:"wirePoints"`
	ValidationErrors  []models.ValidationError `json:"validationErrors"`
	ActiveComponents  []string                 `json:"activeComponents"`
	CanUndo           bool                     `json:"canUndo"`
	CanRedo           bool                     `json:"canRedo"`
}

func (s *Store) State() State {
	st := State{
		Design:            s.design.Clone(),
		SelectedComponent: s.selectedComponent,
		SelectedWire:      s.selectedWire,
		ShowGrid:          s.showGrid,
		WireMode:          s.wireMode,
		IsDrawing:         s.isDrawing,
		WirePoints:        append([]models.Point{}, s.wirePoints...),
		ValidationErrors:  s.ValidationErrors(),
		ActiveComponents:  s.ActiveComponents(),
		CanUndo:           s.CanUndo(),
		CanRedo:           s.CanRedo(),
	}
	if s.drag != nil {
		d := *s.drag
		st.DraggingWire = &d
	}
	return st
}
