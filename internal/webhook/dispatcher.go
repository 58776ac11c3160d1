package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ledgerpay/internal/gateway"
	"ledgerpay/pkg/metrics"
)

// Dispatcher routes normalized webhook events to registered handlers.
// The handler list is fixed at construction, sorted by ascending priority
// with registration order breaking ties.
type Dispatcher struct {
	handlers []Handler
	dlq      DeadLetterPublisher
	audit    AuditSink
}

// Option configures optional dispatcher collaborators.
type Option func(*Dispatcher)

// WithDeadLetter parks events whose handlers failed on a DLQ topic.
func WithDeadLetter(dlq DeadLetterPublisher) Option {
	return func(d *Dispatcher) { d.dlq = dlq }
}

// WithAudit records every dispatch outcome in the sink.
func WithAudit(audit AuditSink) Option {
	return func(d *Dispatcher) { d.audit = audit }
}

func NewDispatcher(handlers []Handler, opts ...Option) *Dispatcher {
	sorted := make([]Handler, len(handlers))
	copy(sorted, handlers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	d := &Dispatcher{handlers: sorted}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Broadcast runs every interested handler in priority order. A failing or
// panicking handler is logged, counted and dead-lettered; the remaining
// handlers still run. Events nobody claims are logged and recorded as
// unhandled, never treated as errors.
func (d *Dispatcher) Broadcast(ctx context.Context, event *gateway.WebhookEvent) DispatchRecord {
	start := time.Now()
	rec := DispatchRecord{}

	for _, h := range d.handlers {
		if !h.CanHandle(event) {
			continue
		}
		rec.HandlersRun++

		if err := d.runHandler(ctx, h, event); err != nil {
			rec.HandlersFailed++
			metrics.WebhookHandlerFailures.WithLabelValues(h.Name()).Inc()
			slog.ErrorContext(ctx, "webhook handler failed",
				"handler", h.Name(),
				"event_id", event.EventID,
				"event_type", string(event.NormalizedType),
				slog.Any("error", err))
			d.deadLetter(ctx, h, event, err)
		}
	}

	switch {
	case rec.HandlersRun == 0:
		rec.Outcome = OutcomeUnhandled
		slog.InfoContext(ctx, "no handler for webhook event",
			"event_id", event.EventID,
			"raw_type", event.RawType,
			"event_type", string(event.NormalizedType))
	case rec.HandlersFailed > 0:
		rec.Outcome = OutcomePartial
	default:
		rec.Outcome = OutcomeProcessed
	}

	metrics.WebhookDispatchDuration.WithLabelValues(event.GatewayID).Observe(time.Since(start).Seconds())
	metrics.WebhookEventsTotal.WithLabelValues(event.GatewayID, string(event.NormalizedType), rec.Outcome).Inc()

	if d.audit != nil {
		if err := d.audit.RecordDispatch(ctx, event, rec); err != nil {
			slog.WarnContext(ctx, "failed to record dispatch audit",
				"event_id", event.EventID, slog.Any("error", err))
		}
	}
	return rec
}

// FirstMatch runs only the highest-priority interested handler and
// propagates its error to the caller.
func (d *Dispatcher) FirstMatch(ctx context.Context, event *gateway.WebhookEvent) error {
	for _, h := range d.handlers {
		if !h.CanHandle(event) {
			continue
		}
		return d.runHandler(ctx, h, event)
	}
	slog.InfoContext(ctx, "no handler for webhook event",
		"event_id", event.EventID,
		"event_type", string(event.NormalizedType))
	return nil
}

func (d *Dispatcher) runHandler(ctx context.Context, h Handler, event *gateway.WebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", h.Name(), r)
		}
	}()
	return h.Handle(ctx, event)
}

func (d *Dispatcher) deadLetter(ctx context.Context, h Handler, event *gateway.WebhookEvent, cause error) {
	if d.dlq == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal event for DLQ",
			"event_id", event.EventID, slog.Any("error", err))
		return
	}
	key := []byte(event.GatewayID + ":" + event.EventID)
	if err := d.dlq.PublishToDLQ(ctx, key, value, fmt.Errorf("%s: %w", h.Name(), cause)); err != nil {
		slog.ErrorContext(ctx, "failed to dead-letter event",
			"event_id", event.EventID, slog.Any("error", err))
	}
}
