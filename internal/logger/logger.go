// Package logger provides structured logging using Go 1.21's log/slog.
// It sets up a JSON handler with service-level context and carries a
// per-request ID through context.Context so one request's store failure
// can be tied back to the endpoint that saw it.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Init creates and returns a structured logger for the given service.
// The logger outputs JSON to stdout with the service name embedded.
func Init(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("service", service),
	)

	// Set as default so log/slog.Info() etc. also use structured output
	slog.SetDefault(logger)

	return logger
}

// WithRequestID stores a request ID in the context for downstream use.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID extracts the request ID from context. Returns "" if not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// GenerateRequestID creates a request ID from an endpoint and timestamp.
// Format: "{endpoint}-{unixNano}" — lightweight, no UUID dependency.
func GenerateRequestID(endpoint string, ts time.Time) string {
	return fmt.Sprintf("%s-%d", endpoint, ts.UnixNano())
}

// WithRequest returns slog attributes including the request ID from context.
// Usage: slog.Error("msg", logger.WithRequest(ctx)...)
func WithRequest(ctx context.Context) []any {
	id := RequestID(ctx)
	if id == "" {
		return nil
	}
	return []any{slog.String("request_id", id)}
}
