// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/lumberjack.v2"

	"clubhouse/internal/config"
)

// New builds a logger writing to stderr and, when cfg.File is set, to a
// rotating file.
// POST: returned closer releases the log file; it is a no-op without one
func New(cfg config.Log) (*slog.Logger, io.Closer) {
	writers := []io.Writer{os.Stderr}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, rotating)
		closer = rotating
	}
	return slog.New(newHandler(io.MultiWriter(writers...), cfg)), closer
}

// Init installs New's logger as the slog default.
func Init(cfg config.Log) io.Closer {
	logger, closer := New(cfg)
	slog.SetDefault(logger)
	slog.Info("logger_initialized", "level", cfg.Level, "format", cfg.Format, "file", cfg.File)
	return closer
}

func newHandler(w io.Writer, cfg config.Log) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a level name to a slog level; unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
