// Package logging builds the slog logger every binary starts from. The
// Temporal client gets the same logger through log.NewStructuredLogger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"mitra-credit/config"
)

// New logs to stdout, tagging every record with component.
func New(cfg config.LoggingConfig, component string) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, component)
}

// NewWithWriter is New with an explicit destination. An empty component
// adds no attribute.
func NewWithWriter(w io.Writer, cfg config.LoggingConfig, component string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if component != "" {
		logger = logger.With("component", component)
	}
	return logger
}

// parseLevel accepts slog level names, offsets like "debug+2" included, and
// the "warning" alias. Anything else logs at info.
func parseLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
