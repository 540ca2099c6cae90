// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options controls Setup.
type Options struct {
	// Debug lowers the level from Info to Debug.
	Debug bool
	// JSON selects the JSON handler, used when stdout carries JSON.
	JSON bool
	// Writer receives log records; nil means os.Stderr.
	Writer io.Writer
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Setup installs New(opts) as the default slog logger.
func Setup(opts Options) {
	slog.SetDefault(New(opts))
}
