// Package logging wires charmbracelet/log loggers through context.Context so
// the compositor, the HTTP handlers and the CLI all log the same way.
package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Levels re-exported so callers need not import charmbracelet/log.
const (
	DebugLevel = log.DebugLevel
	InfoLevel  = log.InfoLevel
)

// New creates a logger with "HH:MM:SS.ms" timestamps at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel accepts debug, info, warn, error; empty means info.
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(s)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger in ctx, or log.Default() when there is none.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
