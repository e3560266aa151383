package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schematic-editor/internal/circuit/store"
	"schematic-editor/internal/editor/metrics"
	"schematic-editor/internal/editor/repository"
	"schematic-editor/internal/editor/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Export / import
// ============================================================

// Export отдает документ файлом circuit-design-YYYY-MM-DD.json.
func (h *EditorHandler) Export(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var data string
	if err := sess.Do(func(st *store.Store) error {
		data, err = st.CircuitJSON()
		return err
	}); err != nil {
		h.log.Error("export failed", "session", sess.ID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export design"})
	}

	c.Attachment(store.ExportFilename(time.Now()))
	return c.SendString(data)
}

// Import загружает файл схемы: multipart-поле "file" или JSON в теле запроса.
func (h *EditorHandler) Import(c fiber.Ctx) error {
	data, err := readUpload(c)
	if err != nil {
		return err
	}
	return h.load(c, "import", data)
}

func readUpload(c fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if len(c.Body()) == 0 {
			return nil, fiber.NewError(http.StatusBadRequest, "empty body")
		}
		return c.Body(), nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "file required")
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".json" {
		return nil, fiber.NewError(http.StatusBadRequest, "only json allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(http.StatusInternalServerError, "failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fiber.NewError(http.StatusInternalServerError, "failed to read file")
	}
	return data, nil
}

// load заменяет документ сессии. Неверный файл дает 422, документ не меняется,
// в состоянии остается одна находка об ошибке загрузки.
func (h *EditorHandler) load(c fiber.Ctx, op string, data []byte) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var (
		loadErr error
		state   store.State
	)
	_ = sess.Do(func(st *store.Store) error {
		loadErr = st.LoadDesign(data)
		state = st.State()
		return nil
	})

	if loadErr != nil {
		metrics.RecordLoadFailure()
		metrics.RecordOperationError(op)
		h.log.Warn("design rejected", "session", sess.ID, "op", op, "error", loadErr)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  store.MsgLoadFailed,
			"detail": loadErr.Error(),
			"state":  state,
		})
	}

	metrics.RecordOperation(op, true)
	return c.JSON(opResponse{Applied: true, State: state})
}

// ============================================================
// Saved files
// ============================================================

// SaveFile пишет текущую выгрузку в каталог сессии. Имя берется из ?name= или по дате.
func (h *EditorHandler) SaveFile(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	name := c.Query("name")
	if name == "" {
		name = store.ExportFilename(time.Now())
	}

	var data string
	if err := sess.Do(func(st *store.Store) error {
		data, err = st.CircuitJSON()
		return err
	}); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export design"})
	}

	if err := h.storage.SaveFile(sess.ID, name, []byte(data)); err != nil {
		if errors.Is(err, service.ErrBadFilename) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("save file failed", "session", sess.ID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"filename": name})
}

func (h *EditorHandler) ListFiles(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	files, err := h.storage.List(sess.ID)
	if err != nil {
		h.log.Error("list files failed", "session", sess.ID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list files"})
	}
	return c.JSON(fiber.Map{"files": files})
}

// LoadFile открывает ранее сохраненный файл сессии.
func (h *EditorHandler) LoadFile(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	data, err := h.storage.ReadFile(sess.ID, c.Params("name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadFilename):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, os.ErrNotExist):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
		default:
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
		}
	}
	return h.load(c, "load_file", data)
}

// ============================================================
// Design library
// ============================================================

type librarySaveRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// SaveToLibrary кладет текущий документ в библиотеку под именем.
func (h *EditorHandler) SaveToLibrary(c fiber.Ctx) error {
	var req librarySaveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var (
		data              string
		components, wires int
	)
	if err := sess.Do(func(st *store.Store) error {
		d := st.Design()
		components, wires = len(d.Components), len(d.Wires)
		data, err = st.CircuitJSON()
		return err
	}); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export design"})
	}

	saved, err := h.library.Save(c.Context(), req.Name, data, components, wires)
	if err != nil {
		h.log.Error("library save failed", "component", "library", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save design"})
	}
	h.log.Info("design saved", "component", "library", "id", saved.ID, "name", saved.Name)
	return c.Status(http.StatusCreated).JSON(saved)
}

// OpenFromLibrary загружает схему из библиотеки в сессию (ID перевыдаются).
func (h *EditorHandler) OpenFromLibrary(c fiber.Ctx) error {
	rec, err := h.library.Get(c.Context(), c.Params("did"))
	if err != nil {
		return libraryError(c, err)
	}
	return h.load(c, "open_design", []byte(rec.Content))
}

func (h *EditorHandler) ListLibrary(c fiber.Ctx) error {
	list, err := h.library.List(c.Context())
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(fiber.Map{"designs": list})
}

func (h *EditorHandler) GetDesign(c fiber.Ctx) error {
	rec, err := h.library.Get(c.Context(), c.Params("did"))
	if err != nil {
		return libraryError(c, err)
	}
	return c.JSON(rec)
}

func (h *EditorHandler) DeleteDesign(c fiber.Ctx) error {
	if err := h.library.Delete(c.Context(), c.Params("did")); err != nil {
		return libraryError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func libraryError(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "design not found"})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "library unavailable"})
}
