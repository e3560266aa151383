package main

import (
	"fmt"
	"os"
	"time"

	"schematic-editor/internal/common/config"
	"schematic-editor/internal/common/logging"
	"schematic-editor/internal/common/middleware"
	"schematic-editor/internal/gateway/handlers"
	"schematic-editor/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("gateway", cfg.LogLevel, cfg.IsProduction())
	upstreamTimeout := time.Duration(cfg.WriteTimeout) * time.Second

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Schematic Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.ErrorLog(log))
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	health := handlers.NewHealthHandler(cfg.EditorURL, upstreamTimeout, log)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	documented, err := handlers.OpenAPIPaths()
	if err != nil {
		log.Error("invalid api docs", "error", err)
		os.Exit(1)
	}
	log.Info("api docs loaded", "paths", len(documented))

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Schematic Editor API v1",
			"status":  "ok",
		})
	})

	// Editor Service
	editor := proxy.New(cfg.EditorURL, upstreamTimeout, log)
	api.All("/*", editor.Strip("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting api gateway", "addr", addr, "env", cfg.Environment, "editor", cfg.EditorURL)

	if err := app.Listen(addr); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
