package logger

import (
	"context"
	"log/slog"

	"ledgerpay/pkg/correlation"
)

// ContextHandler wraps an slog.Handler to automatically inject
// correlation_id and gateway from the context into every log record.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler creates a handler that adds request-scoped attributes.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// Handle adds context attributes before delegating to the inner handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if corrID := correlation.FromContext(ctx); corrID != "" {
		r.AddAttrs(slog.String("correlation_id", corrID))
	}
	if gatewayID := correlation.GatewayFromContext(ctx); gatewayID != "" {
		r.AddAttrs(slog.String("gateway", gatewayID))
	}
	return h.inner.Handle(ctx, r)
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
