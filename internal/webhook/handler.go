package webhook

import (
	"context"
	"time"

	"ledgerpay/internal/gateway"
)

// Handler reacts to normalized webhook events. Implementations must be
// safe for concurrent use; the dispatcher runs them from worker
// goroutines.
type Handler interface {
	// Name identifies the handler in logs, metrics and DLQ headers.
	Name() string
	// CanHandle reports interest in the event. It must be cheap and
	// side-effect free.
	CanHandle(event *gateway.WebhookEvent) bool
	// Handle processes the event. Errors are isolated per handler.
	Handle(ctx context.Context, event *gateway.WebhookEvent) error
	// Priority orders handlers; lower runs first. Ties keep
	// registration order.
	Priority() int
}

// Dispatch outcomes recorded per event.
const (
	OutcomeProcessed = "processed"
	OutcomePartial   = "partial"
	OutcomeUnhandled = "unhandled"
)

// DispatchRecord summarizes one broadcast of an event.
type DispatchRecord struct {
	Outcome        string
	HandlersRun    int
	HandlersFailed int
}

// AuditEntry is one stored dispatch outcome.
type AuditEntry struct {
	EventID        string    `json:"event_id"`
	Gateway        string    `json:"gateway"`
	RawType        string    `json:"raw_type"`
	NormalizedType string    `json:"normalized_type"`
	Outcome        string    `json:"outcome"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// AuditSink stores dispatch outcomes for operator inspection.
type AuditSink interface {
	RecordDispatch(ctx context.Context, event *gateway.WebhookEvent, rec DispatchRecord) error
	RecentEvents(ctx context.Context, gatewayID string, limit int) ([]AuditEntry, error)
}

// DeadLetterPublisher parks events whose handlers failed.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key, value []byte, cause error) error
}
