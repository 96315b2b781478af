// Package logger provides test helpers for structured logging.
package logger

import (
	"io"
	"log/slog"
	"math"
	"os"
)

// NewTestLogger creates a logger for tests.
// By default, uses WARN level to keep test output quiet.
// Set TEST_DEBUG environment variable to enable debug logging in tests.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn // Quiet by default

	// Allow tests to enable debug logging
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// NewNopLogger creates a logger that discards all output. Use it in tests
// where even warnings are expected noise, for example when exercising
// failure paths on a tight loop.
func NewNopLogger() *slog.Logger {
	// slog.DiscardHandler requires Go 1.24+; a handler that is never
	// enabled and writes to io.Discard behaves identically.
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(math.MaxInt32),
	}))
}
