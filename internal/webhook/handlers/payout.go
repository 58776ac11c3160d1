package handlers

import (
	"context"
	"log/slog"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/notification"
)

// PayoutHandler announces payout outcomes for connected accounts. It runs
// last; payout state depends on nothing the other handlers produce.
type PayoutHandler struct {
	publisher notification.Publisher
}

func NewPayoutHandler(publisher notification.Publisher) *PayoutHandler {
	return &PayoutHandler{publisher: publisher}
}

func (h *PayoutHandler) Name() string  { return "payout" }
func (h *PayoutHandler) Priority() int { return 25 }

func (h *PayoutHandler) CanHandle(event *gateway.WebhookEvent) bool {
	return event.NormalizedType == gateway.EventPayoutPaid ||
		event.NormalizedType == gateway.EventPayoutFailed
}

func (h *PayoutHandler) Handle(ctx context.Context, event *gateway.WebhookEvent) error {
	var payout struct {
		ID             string `json:"id"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		Destination    objRef `json:"destination"`
		FailureCode    string `json:"failure_code"`
		FailureMessage string `json:"failure_message"`
	}
	if err := unmarshalObject(event, &payout); err != nil {
		return err
	}

	paid := event.NormalizedType == gateway.EventPayoutPaid
	if !paid {
		slog.WarnContext(ctx, "payout failed",
			"payout_id", payout.ID,
			"account_id", string(payout.Destination),
			"failure_code", payout.FailureCode)
	}

	env, err := notification.NewEnvelope(payout.ID, notification.TypePayoutOutcome, notification.PayoutOutcome{
		GatewayID:      event.GatewayID,
		PayoutID:       payout.ID,
		AccountID:      string(payout.Destination),
		AmountCents:    payout.Amount,
		Currency:       payout.Currency,
		Paid:           paid,
		FailureCode:    payout.FailureCode,
		FailureMessage: payout.FailureMessage,
		OccurredAt:     event.CreatedAt,
	})
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, env)
}
