package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"schematic-editor/internal/circuit/store"
	"schematic-editor/internal/common/config"
	"schematic-editor/internal/common/logging"
	"schematic-editor/internal/common/middleware"
	"schematic-editor/internal/editor/handlers"
	"schematic-editor/internal/editor/metrics"
	"schematic-editor/internal/editor/repository"
	"schematic-editor/internal/editor/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Editor Service
// ============================================================

func main() {
	defaults := config.Defaults()
	defaults.Port = "3001"
	cfg, err := config.LoadWithDefaults(defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("editor", cfg.LogLevel, cfg.IsProduction())

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Error("open db", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Error("init db", "error", err)
		os.Exit(1)
	}

	sessions := service.NewSessionManager(store.Options{HistoryLimit: cfg.HistoryLimit}, cfg.MaxSessions, log)
	storage := service.NewExportStorage(cfg.StorageRoot)
	editor := handlers.NewEditorHandler(sessions, storage, repo, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Schematic Editor",
		ErrorHandler: handlers.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.ErrorLog(log))
	app.Use(middleware.CORS())
	app.Use(metrics.Middleware())

	editor.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting editor service",
		"addr", addr,
		"env", cfg.Environment,
		"db", cfg.DBPath,
		"storage", cfg.StorageRoot,
		"history_limit", cfg.HistoryLimit,
	)

	if err := app.Listen(addr); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
