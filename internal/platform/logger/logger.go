package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the process logger: text output in development, JSON otherwise.
func New(level string, development bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if development {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
