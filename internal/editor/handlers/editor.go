package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"schematic-editor/internal/circuit/models"
	"schematic-editor/internal/circuit/store"
	"schematic-editor/internal/editor/metrics"
	"schematic-editor/internal/editor/repository"
	"schematic-editor/internal/editor/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	sessions *service.SessionManager
	storage  *service.ExportStorage
	library  *repository.Repository
	log      *slog.Logger
}

func NewEditorHandler(sessions *service.SessionManager, storage *service.ExportStorage, library *repository.Repository, log *slog.Logger) *EditorHandler {
	return &EditorHandler{
		sessions: sessions,
		storage:  storage,
		library:  library,
		log:      log,
	}
}

var validate = validator.New()

// opResponse: ответ на любую операцию над документом.
// Applied = false означает молчаливый no-op (например, неизвестный ID).
type opResponse struct {
	Applied   bool              `json:"applied"`
	Component *models.Component `json:"component,omitempty"`
	Wire      *models.Wire      `json:"wire,omitempty"`
	State     store.State       `json:"state"`
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает новый пустой документ.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	sess, err := h.sessions.Create()
	if err != nil {
		if errors.Is(err, service.ErrTooManySessions) {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}
	metrics.SetOpenSessions(h.sessions.Count())

	var state store.State
	_ = sess.Do(func(st *store.Store) error {
		state = st.State()
		return nil
	})
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":    sess.ID,
		"state": state,
	})
}

func (h *EditorHandler) GetSession(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var state store.State
	_ = sess.Do(func(st *store.Store) error {
		state = st.State()
		return nil
	})
	return c.JSON(state)
}

func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	metrics.SetOpenSessions(h.sessions.Count())
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func (h *EditorHandler) session(c fiber.Ctx) (*service.Session, error) {
	sess, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(http.StatusNotFound, "session not found")
	}
	return sess, nil
}

// apply выполняет операцию под блокировкой сессии и отвечает новым состоянием.
func (h *EditorHandler) apply(c fiber.Ctx, op string, fn func(st *store.Store) bool) error {
	resp, err := h.run(c, op, func(st *store.Store, _ *opResponse) (bool, error) {
		return fn(st), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// run: общий путь операций: сессия, блокировка, метрики. Ответ не пишет.
func (h *EditorHandler) run(c fiber.Ctx, op string, fn func(st *store.Store, resp *opResponse) (bool, error)) (opResponse, error) {
	var resp opResponse

	sess, err := h.session(c)
	if err != nil {
		return resp, err
	}

	err = sess.Do(func(st *store.Store) error {
		applied, err := fn(st, &resp)
		if err != nil {
			return err
		}
		resp.Applied = applied
		resp.State = st.State()
		return nil
	})
	if err != nil {
		metrics.RecordOperationError(op)
		return resp, err
	}

	metrics.RecordOperation(op, resp.Applied)
	h.log.Debug("operation", "session", sess.ID, "op", op, "applied", resp.Applied)
	return resp, nil
}

// bind разбирает JSON-тело и проверяет его тегами validate.
func bind(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandler отдает ошибки в виде {"error": "..."}.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
