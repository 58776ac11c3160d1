package handlers

import (
	"context"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/notification"
)

// InvoiceHandler announces invoice settlement outcomes.
type InvoiceHandler struct {
	publisher notification.Publisher
}

func NewInvoiceHandler(publisher notification.Publisher) *InvoiceHandler {
	return &InvoiceHandler{publisher: publisher}
}

func (h *InvoiceHandler) Name() string  { return "invoice" }
func (h *InvoiceHandler) Priority() int { return 0 }

func (h *InvoiceHandler) CanHandle(event *gateway.WebhookEvent) bool {
	return event.NormalizedType == gateway.EventInvoicePaid ||
		event.NormalizedType == gateway.EventInvoicePaymentFailed
}

func (h *InvoiceHandler) Handle(ctx context.Context, event *gateway.WebhookEvent) error {
	var inv struct {
		ID                 string `json:"id"`
		Customer           objRef `json:"customer"`
		Subscription       objRef `json:"subscription"`
		AmountPaid         int64  `json:"amount_paid"`
		AmountDue          int64  `json:"amount_due"`
		Currency           string `json:"currency"`
		AttemptCount       int64  `json:"attempt_count"`
		NextPaymentAttempt int64  `json:"next_payment_attempt"`
	}
	if err := unmarshalObject(event, &inv); err != nil {
		return err
	}

	var env notification.Envelope
	var err error
	if event.NormalizedType == gateway.EventInvoicePaid {
		env, err = notification.NewEnvelope(inv.ID, notification.TypeInvoicePaid, notification.InvoicePaid{
			GatewayID:      event.GatewayID,
			InvoiceID:      inv.ID,
			CustomerID:     string(inv.Customer),
			SubscriptionID: string(inv.Subscription),
			AmountCents:    inv.AmountPaid,
			Currency:       inv.Currency,
			OccurredAt:     event.CreatedAt,
		})
	} else {
		env, err = notification.NewEnvelope(inv.ID, notification.TypeInvoicePaymentFailed, notification.InvoicePaymentFailed{
			GatewayID:      event.GatewayID,
			InvoiceID:      inv.ID,
			CustomerID:     string(inv.Customer),
			SubscriptionID: string(inv.Subscription),
			AttemptCount:   inv.AttemptCount,
			NextAttemptAt:  inv.NextPaymentAttempt,
			OccurredAt:     event.CreatedAt,
		})
	}
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, env)
}
