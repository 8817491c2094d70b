// Package logging builds the isolated slog.Logger of one invocation.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/algoharness/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger writing to outW and, when cfg.File is set, to a
// size-rotated log file as well. It does not set the global logger.
// The returned close function releases the file sink.
func New(cfg config.LogSettings, outW io.Writer) (*slog.Logger, func() error) {
	closeFn := func() error { return nil }

	w := outW
	if cfg.File != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		w = io.MultiWriter(outW, sink)
		closeFn = sink.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), closeFn
}

// ParseLevel maps a level name to its slog.Level. Unknown names yield Info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
