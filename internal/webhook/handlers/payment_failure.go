package handlers

import (
	"context"
	"log/slog"

	"ledgerpay/internal/gateway"
	"ledgerpay/internal/notification"
)

// PaymentFailureHandler announces failed one-off payment attempts. It runs
// after the subscription and invoice handlers so recurring-billing state is
// already updated when dunning reacts.
type PaymentFailureHandler struct {
	publisher notification.Publisher
}

func NewPaymentFailureHandler(publisher notification.Publisher) *PaymentFailureHandler {
	return &PaymentFailureHandler{publisher: publisher}
}

func (h *PaymentFailureHandler) Name() string  { return "payment-failure" }
func (h *PaymentFailureHandler) Priority() int { return 10 }

func (h *PaymentFailureHandler) CanHandle(event *gateway.WebhookEvent) bool {
	return event.NormalizedType == gateway.EventPaymentFailed
}

func (h *PaymentFailureHandler) Handle(ctx context.Context, event *gateway.WebhookEvent) error {
	var intent struct {
		ID               string `json:"id"`
		Customer         objRef `json:"customer"`
		LastPaymentError *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"last_payment_error"`
	}
	if err := unmarshalObject(event, &intent); err != nil {
		return err
	}

	failure := notification.PaymentFailed{
		GatewayID:       event.GatewayID,
		PaymentIntentID: intent.ID,
		CustomerID:      string(intent.Customer),
		OccurredAt:      event.CreatedAt,
	}
	if intent.LastPaymentError != nil {
		failure.ErrorCode = intent.LastPaymentError.Code
		failure.ErrorMessage = intent.LastPaymentError.Message
	}

	slog.InfoContext(ctx, "payment failed",
		"payment_intent_id", intent.ID,
		"error_code", failure.ErrorCode)

	env, err := notification.NewEnvelope(intent.ID, notification.TypePaymentFailed, failure)
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, env)
}
