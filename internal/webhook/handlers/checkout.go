package handlers

import (
	"context"
	"log/slog"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/notification"
)

// CheckoutHandler reacts to completed hosted checkouts. It runs before the
// subscription handlers so the subscription created by the checkout is
// announced first.
type CheckoutHandler struct {
	publisher notification.Publisher
}

func NewCheckoutHandler(publisher notification.Publisher) *CheckoutHandler {
	return &CheckoutHandler{publisher: publisher}
}

func (h *CheckoutHandler) Name() string  { return "checkout" }
func (h *CheckoutHandler) Priority() int { return -1 }

func (h *CheckoutHandler) CanHandle(event *gateway.WebhookEvent) bool {
	return event.NormalizedType == gateway.EventCheckoutSessionCompleted
}

func (h *CheckoutHandler) Handle(ctx context.Context, event *gateway.WebhookEvent) error {
	var session struct {
		ID           string `json:"id"`
		Mode         string `json:"mode"`
		Customer     objRef `json:"customer"`
		Subscription objRef `json:"subscription"`
	}
	if err := unmarshalObject(event, &session); err != nil {
		return err
	}

	// One-off payment checkouts settle through payment_intent events.
	if session.Mode != "subscription" {
		slog.DebugContext(ctx, "ignoring non-subscription checkout",
			"session_id", session.ID, "mode", session.Mode)
		return nil
	}

	env, err := notification.NewEnvelope(session.ID, notification.TypeCheckoutCompleted, notification.CheckoutCompleted{
		GatewayID:      event.GatewayID,
		SessionID:      session.ID,
		CustomerID:     string(session.Customer),
		SubscriptionID: string(session.Subscription),
		OccurredAt:     event.CreatedAt,
	})
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, env)
}
