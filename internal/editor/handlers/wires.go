package handlers

import (
	"net/http"

	"schematic-editor/internal/circuit/geometry"
	"schematic-editor/internal/circuit/models"
	"schematic-editor/internal/circuit/store"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Wires
// ============================================================

// terminalRequest указывает вывод компонента: координатами или номером.
type terminalRequest struct {
	ComponentID   string        `json:"componentId" validate:"required"`
	Terminal      *pointPayload `json:"terminal" validate:"required_without=TerminalIndex"`
	TerminalIndex *int          `json:"terminalIndex" validate:"required_without=Terminal,omitempty,gte=0"`
}

// resolve возвращает вывод в абсолютных координатах. Для неизвестного компонента
// точка пустая: store сам превратит операцию в no-op.
func (r terminalRequest) resolve(st *store.Store) (models.Point, error) {
	if r.TerminalIndex == nil {
		return r.Terminal.point(), nil
	}
	comp, ok := st.Design().Component(r.ComponentID)
	if !ok {
		return models.Point{}, nil
	}
	p, ok := geometry.TerminalAt(comp, *r.TerminalIndex)
	if !ok {
		return models.Point{}, fiber.NewError(http.StatusBadRequest, "terminal index out of range")
	}
	return p, nil
}

func (h *EditorHandler) DeleteWire(c fiber.Ctx) error {
	wid := c.Params("wid")
	return h.apply(c, "delete_wire", func(st *store.Store) bool {
		return st.DeleteWire(wid)
	})
}

// SelectWire: клик по проводу: повторный клик снимает выделение.
func (h *EditorHandler) SelectWire(c fiber.Ctx) error {
	wid := c.Params("wid")
	return h.apply(c, "select_wire", func(st *store.Store) bool {
		before := st.SelectedWire()
		st.ToggleWireSelect(wid)
		return st.SelectedWire() != before
	})
}

func (h *EditorHandler) ToggleWireMode(c fiber.Ctx) error {
	return h.apply(c, "toggle_wire_mode", func(st *store.Store) bool {
		st.ToggleWireMode()
		return true
	})
}

// ------------------------------------------------------------
// Terminal drag
// ------------------------------------------------------------

func (h *EditorHandler) StartWire(c fiber.Ctx) error {
	var req terminalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.applyTerminal(c, "start_wire", req, func(st *store.Store, p models.Point, _ *opResponse) bool {
		return st.StartWire(req.ComponentID, p)
	})
}

func (h *EditorHandler) UpdateWire(c fiber.Ctx) error {
	var req pointPayload
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.point()
	return h.apply(c, "update_wire", func(st *store.Store) bool {
		return st.UpdateWire(p)
	})
}

func (h *EditorHandler) CompleteWire(c fiber.Ctx) error {
	var req terminalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.applyTerminal(c, "complete_wire", req, func(st *store.Store, p models.Point, resp *opResponse) bool {
		w, ok := st.CompleteWire(req.ComponentID, p)
		if ok {
			resp.Wire = &w
		}
		return ok
	})
}

func (h *EditorHandler) CancelWire(c fiber.Ctx) error {
	return h.apply(c, "cancel_wire", func(st *store.Store) bool {
		_, dragging := st.DraggingWire()
		st.CancelWire()
		return dragging
	})
}

func (h *EditorHandler) applyTerminal(c fiber.Ctx, op string, req terminalRequest, fn func(st *store.Store, p models.Point, resp *opResponse) bool) error {
	resp, err := h.run(c, op, func(st *store.Store, resp *opResponse) (bool, error) {
		p, err := req.resolve(st)
		if err != nil {
			return false, err
		}
		return fn(st, p, resp), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ------------------------------------------------------------
// Free path
// ------------------------------------------------------------

func (h *EditorHandler) AddPathPoint(c fiber.Ctx) error {
	var req pointPayload
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.point()
	return h.apply(c, "add_path_point", func(st *store.Store) bool {
		return st.AddWirePoint(p)
	})
}

// FinishPath: двойной клик: последняя точка и фиксация.
func (h *EditorHandler) FinishPath(c fiber.Ctx) error {
	var req pointPayload
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.point()
	return h.commitPath(c, "finish_path", func(st *store.Store) (models.Wire, bool) {
		return st.FinishWirePath(p)
	})
}

// CompletePath: Enter: фиксация накопленной ломаной.
func (h *EditorHandler) CompletePath(c fiber.Ctx) error {
	return h.commitPath(c, "complete_path", func(st *store.Store) (models.Wire, bool) {
		return st.CompleteWirePath()
	})
}

func (h *EditorHandler) CancelPath(c fiber.Ctx) error {
	return h.apply(c, "cancel_path", func(st *store.Store) bool {
		drawing := st.IsDrawing()
		st.CancelWirePath()
		return drawing
	})
}

func (h *EditorHandler) commitPath(c fiber.Ctx, op string, fn func(st *store.Store) (models.Wire, bool)) error {
	resp, err := h.run(c, op, func(st *store.Store, resp *opResponse) (bool, error) {
		w, ok := fn(st)
		if ok {
			resp.Wire = &w
		}
		return ok, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
