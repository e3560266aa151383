package store

import (
	"schematic-editor/internal/circuit/geometry"
	"schematic-editor/internal/circuit/grid"
	"schematic-editor/internal/circuit/models"
)

// ============================================================
// Wire drawing
// ============================================================
//
// Два взаимоисключающих режима:
//
//   протягивание от вывода:  idle -> dragging(from) -> idle
//       StartWire, UpdateWire, CompleteWire | CancelWire
//
//   свободный путь (инструмент "wire"):  idle -> drawing([p0, p1, ...]) -> idle
//       AddWirePoint добавляет точку;
//       CompleteWirePath (Enter) фиксирует накопленную ломаную;
//       FinishWirePath (двойной клик) добавляет точку и сразу фиксирует;
//       CancelWirePath (Escape) сбрасывает буфер.
//
// Переключение инструмента сбрасывает оба режима.

// Anchor: вывод компонента в абсолютных координатах.
type Anchor struct {
	ComponentID string       `json:"componentId"`
	Terminal    models.Point `json:"terminal"`
}

// WireDrag: провод, который тянут от вывода.
type WireDrag struct {
	From Anchor       `json:"from"`
	To   models.Point `json:"to"`
}

func (s *Store) WireMode() bool { return s.wireMode }

func (s *Store) IsDrawing() bool { return s.isDrawing }

func (s *Store) WirePoints() []models.Point {
	return append([]models.Point{}, s.wirePoints...)
}

// DraggingWire возвращает копию протягиваемого провода, если он есть.
func (s *Store) DraggingWire() (WireDrag, bool) {
	if s.drag == nil {
		return WireDrag{}, false
	}
	return *s.drag, true
}

// ToggleWireMode включает/выключает инструмент провода и сбрасывает все
// незавершенные построения.
func (s *Store) ToggleWireMode() bool {
	s.wireMode = !s.wireMode
	s.abandonPath()
	s.drag = nil
	return s.wireMode
}

func (s *Store) resetPath() {
	s.wirePoints = nil
	s.isDrawing = false
	s.pathSnapshot = false
	s.pathFuture = nil
}

// abandonPath бросает ломаную без провода и убирает пустой шаг истории
// от первого клика.
func (s *Store) abandonPath() {
	if s.pathSnapshot {
		s.history.drop(s.pathFuture)
	}
	s.resetPath()
}

// ------------------------------------------------------------
// Terminal drag
// ------------------------------------------------------------

// StartWire начинает протягивание от вывода компонента.
func (s *Store) StartWire(componentID string, terminal models.Point) bool {
	if s.isDrawing || s.indexOfComponent(componentID) < 0 {
		return false
	}
	origin := grid.Snap(terminal)
	origin.ComponentID = componentID
	s.drag = &WireDrag{
		From: Anchor{ComponentID: componentID, Terminal: origin},
		To:   origin,
	}
	return true
}

// UpdateWire двигает конец превью. Документ не меняется.
func (s *Store) UpdateWire(p models.Point) bool {
	if s.drag == nil {
		return false
	}
	to := grid.Snap(p)
	to.ComponentID = ""
	s.drag.To = to
	return true
}

// CompleteWire соединяет исходный вывод с выводом другого компонента.
// Соединение компонента с самим собой молча отменяет протягивание.
func (s *Store) CompleteWire(componentID string, terminal models.Point) (models.Wire, bool) {
	if s.drag == nil {
		return models.Wire{}, false
	}
	from := s.drag.From
	s.drag = nil

	if from.ComponentID == componentID ||
		s.indexOfComponent(from.ComponentID) < 0 ||
		s.indexOfComponent(componentID) < 0 {
		return models.Wire{}, false
	}

	target := grid.Snap(terminal)
	target.ComponentID = componentID

	s.SaveToHistory()
	w := models.Wire{
		ID:     s.ids.Next(models.WireTool),
		Points: []models.Point{from.Terminal, target},
	}
	s.design.Wires = append(s.design.Wires, w)
	return w, true
}

func (s *Store) CancelWire() {
	s.drag = nil
}

// ------------------------------------------------------------
// Free path
// ------------------------------------------------------------

// AddWirePoint добавляет точку к ломаной. Первый вызов сохраняет историю и
// начинает рисование. Повтор последней точки игнорируется.
func (s *Store) AddWirePoint(p models.Point) bool {
	if !s.wireMode || s.drag != nil {
		return false
	}
	pt := grid.Snap(p)

	if !s.isDrawing {
		future := s.history.future
		s.SaveToHistory()
		s.pathSnapshot = true
		s.pathFuture = future
		s.isDrawing = true
		s.wirePoints = []models.Point{pt}
		return true
	}

	if last := s.wirePoints[len(s.wirePoints)-1]; last.SameCoords(pt) {
		if pt.Anchored() {
			s.wirePoints[len(s.wirePoints)-1].ComponentID = pt.ComponentID
		}
		return true
	}
	s.wirePoints = append(s.wirePoints, pt)
	return true
}

// FinishWirePath добавляет последнюю точку и фиксирует провод.
func (s *Store) FinishWirePath(p models.Point) (models.Wire, bool) {
	if !s.isDrawing {
		return models.Wire{}, false
	}
	s.AddWirePoint(p)
	return s.CompleteWirePath()
}

// CompleteWirePath фиксирует накопленную ломаную (минимум две точки).
// Концы привязываются к выводам компонентов, промежуточные точки не привязываются никогда.
func (s *Store) CompleteWirePath() (models.Wire, bool) {
	if !s.isDrawing || len(s.wirePoints) < 2 {
		return models.Wire{}, false
	}

	points := make([]models.Point, len(s.wirePoints))
	copy(points, s.wirePoints)
	last := len(points) - 1
	for i := 1; i < last; i++ {
		points[i].ComponentID = ""
	}
	points[0].ComponentID = s.resolveAnchor(points[0])
	points[last].ComponentID = s.resolveAnchor(points[last])

	if points[0].Anchored() && points[0].ComponentID == points[last].ComponentID {
		s.abandonPath()
		return models.Wire{}, false
	}
	s.resetPath()

	w := models.Wire{
		ID:         s.ids.Next(models.WireTool),
		Points:     points,
		IsFreePath: true,
	}
	s.design.Wires = append(s.design.Wires, w)
	return w, true
}

// CancelWirePath сбрасывает буфер точек без создания провода.
func (s *Store) CancelWirePath() {
	s.abandonPath()
}

// resolveAnchor оставляет явную привязку, если компонент существует,
// иначе ищет вывод, совпадающий с точкой.
func (s *Store) resolveAnchor(p models.Point) string {
	if p.Anchored() {
		if s.indexOfComponent(p.ComponentID) >= 0 {
			return p.ComponentID
		}
		return ""
	}
	id, _ := geometry.FindTerminal(s.design.Components, p)
	return id
}
