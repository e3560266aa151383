package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register вешает все маршруты редактора на приложение.
func (h *EditorHandler) Register(app *fiber.App) {
	// ============================================================
	// Health & metrics
	// ============================================================

	app.Get("/health/live", h.Liveness)
	app.Get("/health/ready", h.Readiness)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ============================================================
	// Sessions
	// ============================================================

	app.Post("/sessions", h.CreateSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Delete("/sessions/:id", h.CloseSession)

	s := app.Group("/sessions/:id")

	// Components
	s.Post("/components", h.AddComponent)
	s.Patch("/components/:cid", h.UpdateComponent)
	s.Delete("/components/:cid", h.DeleteComponent)
	s.Post("/components/:cid/rotate", h.RotateComponent)
	s.Post("/components/:cid/drag", h.BeginDrag)
	s.Post("/components/:cid/move", h.MoveComponent)
	s.Post("/select", h.Select)

	// Wires
	s.Delete("/wires/:wid", h.DeleteWire)
	s.Post("/wires/:wid/select", h.SelectWire)
	s.Post("/wire-mode", h.ToggleWireMode)
	s.Post("/wire/start", h.StartWire)
	s.Post("/wire/update", h.UpdateWire)
	s.Post("/wire/complete", h.CompleteWire)
	s.Post("/wire/cancel", h.CancelWire)
	s.Post("/path/points", h.AddPathPoint)
	s.Post("/path/finish", h.FinishPath)
	s.Post("/path/complete", h.CompletePath)
	s.Post("/path/cancel", h.CancelPath)

	// History, analysis, view
	s.Post("/undo", h.Undo)
	s.Post("/redo", h.Redo)
	s.Post("/validate", h.Validate)
	s.Post("/simulate", h.Simulate)
	s.Delete("/validation", h.ClearValidation)
	s.Post("/clear", h.Clear)
	s.Post("/grid", h.ToggleGrid)

	// Files
	s.Get("/export", h.Export)
	s.Post("/import", h.Import)
	s.Post("/files", h.SaveFile)
	s.Get("/files", h.ListFiles)
	s.Post("/files/:name/load", h.LoadFile)
	s.Post("/library", h.SaveToLibrary)
	s.Post("/library/:did/open", h.OpenFromLibrary)

	// ============================================================
	// Design library
	// ============================================================

	app.Get("/library", h.ListLibrary)
	app.Get("/library/:did", h.GetDesign)
	app.Delete("/library/:did", h.DeleteDesign)
}
