package handlers

import (
	"net/http"

	"schematic-editor/internal/circuit/models"
	"schematic-editor/internal/circuit/store"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Components & selection
// ============================================================

type pointPayload struct {
	X           *float64 `json:"x" validate:"required"`
	Y           *float64 `json:"y" validate:"required"`
	ComponentID string   `json:"componentId"`
}

func (p pointPayload) point() models.Point {
	return models.Point{X: *p.X, Y: *p.Y, ComponentID: p.ComponentID}
}

type addComponentRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"max=64"`
}

type updateComponentRequest struct {
	Position *pointPayload `json:"position"`
	Rotation *int          `json:"rotation" validate:"omitempty,gte=0,lt=360"`
	Value    *string       `json:"value" validate:"omitempty,max=64"`
}

type selectRequest struct {
	ComponentID *string `json:"componentId"`
}

// AddComponent кладет компонент из палитры в позицию по умолчанию.
func (h *EditorHandler) AddComponent(c fiber.Ctx) error {
	var req addComponentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	typ, err := models.ParseComponentType(req.Type)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.run(c, "add_component", func(st *store.Store, resp *opResponse) (bool, error) {
		comp, err := st.AddComponent(typ, req.Value)
		if err != nil {
			return false, fiber.NewError(http.StatusBadRequest, err.Error())
		}
		resp.Component = &comp
		return true, nil
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

// UpdateComponent: правка из панели свойств (шаг истории).
func (h *EditorHandler) UpdateComponent(c fiber.Ctx) error {
	var req updateComponentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u := store.ComponentUpdate{Rotation: req.Rotation, Value: req.Value}
	if req.Position != nil {
		p := req.Position.point()
		u.Position = &p
	}

	cid := c.Params("cid")
	return h.apply(c, "edit_component", func(st *store.Store) bool {
		return st.EditComponent(cid, u)
	})
}

func (h *EditorHandler) DeleteComponent(c fiber.Ctx) error {
	cid := c.Params("cid")
	return h.apply(c, "delete_component", func(st *store.Store) bool {
		return st.DeleteComponent(cid)
	})
}

func (h *EditorHandler) RotateComponent(c fiber.Ctx) error {
	cid := c.Params("cid")
	return h.apply(c, "rotate_component", func(st *store.Store) bool {
		return st.RotateComponent(cid)
	})
}

// BeginDrag: mousedown на компоненте: один шаг истории на все перетаскивание.
func (h *EditorHandler) BeginDrag(c fiber.Ctx) error {
	cid := c.Params("cid")
	return h.apply(c, "begin_drag", func(st *store.Store) bool {
		return st.BeginComponentDrag(cid)
	})
}

// MoveComponent: mousemove при перетаскивании, история не пишется.
func (h *EditorHandler) MoveComponent(c fiber.Ctx) error {
	var req pointPayload
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.point()

	cid := c.Params("cid")
	return h.apply(c, "move_component", func(st *store.Store) bool {
		return st.UpdateComponent(cid, store.ComponentUpdate{Position: &p})
	})
}

// Select выделяет компонент; null снимает выделение.
func (h *EditorHandler) Select(c fiber.Ctx) error {
	var req selectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id := ""
	if req.ComponentID != nil {
		id = *req.ComponentID
	}
	return h.apply(c, "select_component", func(st *store.Store) bool {
		st.SelectComponent(id)
		return st.SelectedComponent() == id
	})
}
