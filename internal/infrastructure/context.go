package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a type for context keys
type contextKey string

// RunIDContextKey is the key for storing the run id in context
const RunIDContextKey contextKey = "run_id"

// NewRunID generates a fresh run id for a tool invocation
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds a run id to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

// GetRunID retrieves the run id from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// LoggerFromContext returns the global logger. The run id travels in the
// context and is injected per record by the logging handler, so callers
// should prefer the Context variants of the log methods.
func LoggerFromContext(_ context.Context) *slog.Logger {
	return GetLogger()
}
