package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with application-specific functionality
type Logger struct {
	*slog.Logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON logger with the specified level. Used by the API server
// where logs are shipped as structured records.
func New(level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stdout, opts))}
}

// NewText creates a human-readable logger for the build CLIs (sitegen,
// migrate), where output is read in a terminal or a CI log.
func NewText(level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, opts))}
}

// Default returns a logger with default settings
func Default() *Logger {
	return New("info")
}
