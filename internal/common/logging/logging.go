package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ============================================================
// Structured logging
// ============================================================

// New создает логгер сервиса: JSON в production, текст в остальных окружениях.
// Все записи получают атрибут service.
func New(service, level string, production bool) *slog.Logger {
	return newWithWriter(os.Stderr, service, level, production)
}

func newWithWriter(w io.Writer, service, level string, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", service)})
	}
	return slog.New(handler)
}

// ParseLevel переводит строку конфигурации в уровень; неизвестное значение считается info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard: логгер для тестов.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
