package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards all output. Used by tests that only need a logger
// in context.
func NewTestHandler(_ slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}
