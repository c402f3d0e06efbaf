package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/config"
)

// Setup configures the global slog logger from the log section of the
// project config. Output goes to stderr so command output stays clean.
func Setup(cfg config.LogConfig) *slog.Logger {
	return setup(os.Stderr, cfg)
}

func setup(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
