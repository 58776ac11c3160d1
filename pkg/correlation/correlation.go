// Package correlation propagates request-scoped identifiers through context.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header for correlation ID.
const HeaderName = "X-Correlation-ID"

// KafkaHeaderName is the Kafka header for correlation ID.
const KafkaHeaderName = "X-Correlation-ID"

type idKey struct{}
type gatewayKey struct{}

// FromContext extracts the correlation ID from context.
// Returns empty string if not present.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(idKey{}).(string); ok {
		return id
	}
	return ""
}

// WithID returns a new context carrying the correlation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// GatewayFromContext extracts the gateway ID attached during webhook processing.
func GatewayFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(gatewayKey{}).(string); ok {
		return id
	}
	return ""
}

// WithGateway returns a new context carrying the gateway ID so every log
// record emitted while processing a webhook names the provider it came from.
func WithGateway(ctx context.Context, gatewayID string) context.Context {
	return context.WithValue(ctx, gatewayKey{}, gatewayID)
}

// NewID generates a new correlation ID (UUID v4).
func NewID() string {
	return uuid.New().String()
}
