// Package ctxlog provides context keys for safely passing a slog.Logger
// instance and the current run id through context.Context.
package ctxlog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key int

const (
	loggerKey key = iota
	runIDKey
)

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns the default global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// NewRunID returns a fresh identifier for one invocation (or one watch-mode
// iteration).
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID stores id in the context and attaches it to the context logger
// as the "run_id" attribute.
func WithRunID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, id)
	return WithLogger(ctx, FromContext(ctx).With("run_id", id))
}

// RunID returns the run id stored in ctx, or "" if there is none.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
