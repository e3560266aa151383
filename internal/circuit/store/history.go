package store

import "schematic-editor/internal/circuit/models"

// ============================================================
// Undo / redo
// ============================================================

// history хранит полные снимки документа. past идет от старых к новым,
// future[0] это ближайший шаг redo.
type history struct {
	past   []models.Design
	future []models.Design
	limit  int
}

func (h *history) push(d models.Design) {
	h.past = append(h.past, d.Clone())
	if h.limit > 0 && len(h.past) > h.limit {
		h.past = append([]models.Design(nil), h.past[len(h.past)-h.limit:]...)
	}
	h.future = nil
}

// drop снимает последний снимок и возвращает прежний redo-стек.
func (h *history) drop(future []models.Design) {
	if n := len(h.past); n > 0 {
		h.past = h.past[:n-1]
	}
	h.future = future
}

// SaveToHistory запоминает текущий документ и сбрасывает redo.
// Вызывается перед каждой отменяемой мутацией.
func (s *Store) SaveToHistory() {
	s.history.push(s.design)
}

// Undo возвращает предыдущий снимок. Выделение и режимы инструментов не меняются.
func (s *Store) Undo() bool {
	n := len(s.history.past)
	if n == 0 {
		return false
	}
	previous := s.history.past[n-1]
	s.history.past = s.history.past[:n-1]
	s.history.future = append([]models.Design{s.design}, s.history.future...)
	s.design = previous
	s.afterHistoryJump()
	return true
}

func (s *Store) Redo() bool {
	if len(s.history.future) == 0 {
		return false
	}
	next := s.history.future[0]
	s.history.future = s.history.future[1:]
	s.history.past = append(s.history.past, s.design)
	s.design = next
	s.afterHistoryJump()
	return true
}

// afterHistoryJump сбрасывает протягивание, если исходный компонент исчез из документа.
// Снимок начала ломаной после перехода по истории уже не принадлежит ей.
func (s *Store) afterHistoryJump() {
	if s.drag != nil && s.indexOfComponent(s.drag.From.ComponentID) < 0 {
		s.drag = nil
	}
	s.pathSnapshot = false
	s.pathFuture = nil
}

func (s *Store) CanUndo() bool { return len(s.history.past) > 0 }

func (s *Store) CanRedo() bool { return len(s.history.future) > 0 }
