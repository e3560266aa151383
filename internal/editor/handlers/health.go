package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

func (h *EditorHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness проверяет, что библиотека схем доступна.
func (h *EditorHandler) Readiness(c fiber.Ctx) error {
	if err := h.library.Ping(c.Context()); err != nil {
		h.log.Warn("readiness failed", "error", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{
		"status":   "ready",
		"sessions": h.sessions.Count(),
	})
}
