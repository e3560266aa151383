package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

type HealthHandler struct {
	editorURL string
	client    *http.Client
	log       *slog.Logger
}

func NewHealthHandler(editorURL string, timeout time.Duration, log *slog.Logger) *HealthHandler {
	return &HealthHandler{
		editorURL: strings.TrimRight(editorURL, "/"),
		client:    &http.Client{Timeout: timeout},
		log:       log.With("component", "health"),
	}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет, что сервис редактора отвечает на свой readiness.
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, h.editorURL+"/health/ready", nil)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("editor not reachable", "url", h.editorURL, "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "editor": "unreachable"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "editor": resp.StatusCode})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"editor": "ready",
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *HealthHandler) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
