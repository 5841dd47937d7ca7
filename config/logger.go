package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds a text logger on stderr at the named level
func NewLogger(level string) *slog.Logger {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug, info, warn and error onto slog levels, defaulting to info
func ParseLevel(level string) slog.Level {
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
