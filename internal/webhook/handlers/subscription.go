package handlers

import (
	"context"
	"log/slog"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/notification"
)

// SubscriptionHandler tracks subscription lifecycle transitions.
type SubscriptionHandler struct {
	publisher notification.Publisher
}

func NewSubscriptionHandler(publisher notification.Publisher) *SubscriptionHandler {
	return &SubscriptionHandler{publisher: publisher}
}

func (h *SubscriptionHandler) Name() string  { return "subscription" }
func (h *SubscriptionHandler) Priority() int { return 0 }

func (h *SubscriptionHandler) CanHandle(event *gateway.WebhookEvent) bool {
	switch event.NormalizedType {
	case gateway.EventSubscriptionCreated,
		gateway.EventSubscriptionUpdated,
		gateway.EventSubscriptionDeleted:
		return true
	}
	return false
}

func (h *SubscriptionHandler) Handle(ctx context.Context, event *gateway.WebhookEvent) error {
	var sub struct {
		ID                string `json:"id"`
		Customer          objRef `json:"customer"`
		Status            string `json:"status"`
		CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	}
	if err := unmarshalObject(event, &sub); err != nil {
		return err
	}

	status := sub.Status
	// Deletion events may carry the pre-deletion status.
	if event.NormalizedType == gateway.EventSubscriptionDeleted {
		status = string(gateway.SubscriptionCanceled)
	}
	if status == string(gateway.SubscriptionPastDue) {
		slog.WarnContext(ctx, "subscription past due",
			"subscription_id", sub.ID, "customer_id", string(sub.Customer))
	}

	env, err := notification.NewEnvelope(sub.ID, notification.TypeSubscriptionStatusChanged, notification.SubscriptionStatusChanged{
		GatewayID:         event.GatewayID,
		SubscriptionID:    sub.ID,
		CustomerID:        string(sub.Customer),
		Status:            status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		OccurredAt:        event.CreatedAt,
	})
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, env)
}
