package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by webhook handlers.
const (
	TypeSubscriptionStatusChanged = "subscription.status_changed"
	TypeInvoicePaid               = "invoice.paid"
	TypeInvoicePaymentFailed      = "invoice.payment_failed"
	TypeCheckoutCompleted         = "checkout.completed"
	TypePaymentFailed             = "payment.failed"
	TypePayoutOutcome             = "payout.outcome"
)

// Envelope wraps a notification with metadata for tracing and routing.
// Key selects the broker partition, so notifications about the same
// subject stay ordered.
type Envelope struct {
	EventID   string          `json:"event_id"`
	Key       string          `json:"key"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope creates an envelope with a generated event ID.
func NewEnvelope(key, notifType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		EventID:   uuid.New().String(),
		Key:       key,
		Type:      notifType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

//go:generate mockgen -source notification.go -destination mock_publisher.go -package notification

// Publisher sends notification envelopes to a message broker.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
	Close() error
}

// SubscriptionStatusChanged reports a subscription lifecycle transition.
type SubscriptionStatusChanged struct {
	GatewayID         string `json:"gateway_id"`
	SubscriptionID    string `json:"subscription_id"`
	CustomerID        string `json:"customer_id,omitempty"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end,omitempty"`
	OccurredAt        int64  `json:"occurred_at"`
}

// InvoicePaid reports a successfully settled invoice.
type InvoicePaid struct {
	GatewayID      string `json:"gateway_id"`
	InvoiceID      string `json:"invoice_id"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	AmountCents    int64  `json:"amount_cents,omitempty"`
	Currency       string `json:"currency,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}

// InvoicePaymentFailed reports a failed invoice collection attempt.
type InvoicePaymentFailed struct {
	GatewayID      string `json:"gateway_id"`
	InvoiceID      string `json:"invoice_id"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	AttemptCount   int64  `json:"attempt_count,omitempty"`
	NextAttemptAt  int64  `json:"next_attempt_at,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}

// CheckoutCompleted reports a finished hosted checkout that started a
// subscription.
type CheckoutCompleted struct {
	GatewayID      string `json:"gateway_id"`
	SessionID      string `json:"session_id"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}

// PaymentFailed reports a failed one-off payment attempt.
type PaymentFailed struct {
	GatewayID       string `json:"gateway_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	CustomerID      string `json:"customer_id,omitempty"`
	ErrorCode       string `json:"error_code,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
	OccurredAt      int64  `json:"occurred_at"`
}

// PayoutOutcome reports a payout settling or failing for a connected
// account.
type PayoutOutcome struct {
	GatewayID      string `json:"gateway_id"`
	PayoutID       string `json:"payout_id"`
	AccountID      string `json:"account_id,omitempty"`
	AmountCents    int64  `json:"amount_cents,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Paid           bool   `json:"paid"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}
