package handlers

import (
	"time"

	"schematic-editor/internal/circuit/graph"
	"schematic-editor/internal/circuit/models"
	"schematic-editor/internal/circuit/store"
	"schematic-editor/internal/editor/metrics"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// History, analysis & view
// ============================================================

func (h *EditorHandler) Undo(c fiber.Ctx) error {
	return h.apply(c, "undo", func(st *store.Store) bool {
		return st.Undo()
	})
}

func (h *EditorHandler) Redo(c fiber.Ctx) error {
	return h.apply(c, "redo", func(st *store.Store) bool {
		return st.Redo()
	})
}

// Clear: кнопка «Clear»: пустой документ, отменяемо.
func (h *EditorHandler) Clear(c fiber.Ctx) error {
	return h.apply(c, "clear", func(st *store.Store) bool {
		st.ClearDesign()
		return true
	})
}

func (h *EditorHandler) ToggleGrid(c fiber.Ctx) error {
	return h.apply(c, "toggle_grid", func(st *store.Store) bool {
		st.ToggleGrid()
		return true
	})
}

// Validate: рекомендательная проверка, находки заменяют прежние.
func (h *EditorHandler) Validate(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var (
		findings []models.ValidationError
		state    store.State
	)
	_ = sess.Do(func(st *store.Store) error {
		findings = st.ValidateCircuit()
		state = st.State()
		return nil
	})
	metrics.RecordOperation("validate", true)

	return c.JSON(fiber.Map{
		"findings": findings,
		"state":    state,
	})
}

// Simulate пересчитывает активные компоненты (подсветка замкнутой цепи).
func (h *EditorHandler) Simulate(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var (
		result graph.SimulationResult
		state  store.State
	)
	_ = sess.Do(func(st *store.Store) error {
		start := time.Now()
		result = st.SimulateCircuit()
		if result.Computed {
			metrics.RecordSimulation(time.Since(start), len(result.Active))
		}
		state = st.State()
		return nil
	})
	metrics.RecordOperation("simulate", result.Computed)
	h.log.Debug("simulate", "session", sess.ID, "computed", result.Computed, "active", len(result.Active))

	return c.JSON(fiber.Map{
		"result": result,
		"state":  state,
	})
}

func (h *EditorHandler) ClearValidation(c fiber.Ctx) error {
	return h.apply(c, "clear_validation", func(st *store.Store) bool {
		st.ClearValidation()
		return true
	})
}
