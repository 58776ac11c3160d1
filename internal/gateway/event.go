package gateway

import "encoding/json"

// EventType is the gateway-agnostic classification of a provider's raw
// webhook event type. The set is closed; raw types no gateway recognizes
// normalize to EventUnknown, never to an error.
type EventType string

const (
	EventPaymentSucceeded      EventType = "PAYMENT_SUCCEEDED"
	EventPaymentFailed         EventType = "PAYMENT_FAILED"
	EventPaymentCanceled       EventType = "PAYMENT_CANCELED"
	EventPaymentRequiresAction EventType = "PAYMENT_REQUIRES_ACTION"

	EventSetupSucceeded EventType = "SETUP_SUCCEEDED"
	EventSetupFailed    EventType = "SETUP_FAILED"

	EventRefundCreated   EventType = "REFUND_CREATED"
	EventRefundSucceeded EventType = "REFUND_SUCCEEDED"
	EventRefundFailed    EventType = "REFUND_FAILED"

	EventAccountUpdated           EventType = "ACCOUNT_UPDATED"
	EventAccountCapabilityUpdated EventType = "ACCOUNT_CAPABILITY_UPDATED"
	EventAccountOnboardingDone    EventType = "ACCOUNT_ONBOARDING_COMPLETE"

	EventTransferCreated  EventType = "TRANSFER_CREATED"
	EventTransferUpdated  EventType = "TRANSFER_UPDATED"
	EventTransferReversed EventType = "TRANSFER_REVERSED"

	EventPayoutCreated EventType = "PAYOUT_CREATED"
	EventPayoutPaid    EventType = "PAYOUT_PAID"
	EventPayoutFailed  EventType = "PAYOUT_FAILED"

	EventSubscriptionCreated EventType = "SUBSCRIPTION_CREATED"
	EventSubscriptionUpdated EventType = "SUBSCRIPTION_UPDATED"
	EventSubscriptionDeleted EventType = "SUBSCRIPTION_DELETED"

	EventInvoicePaid          EventType = "INVOICE_PAID"
	EventInvoicePaymentFailed EventType = "INVOICE_PAYMENT_FAILED"

	EventCheckoutSessionCompleted EventType = "CHECKOUT_SESSION_COMPLETED"

	EventUnknown EventType = "UNKNOWN"
)

// WebhookEvent is a verified, normalized webhook event from a gateway.
// The raw provider payload is retained for handlers that need
// provider-specific fields.
type WebhookEvent struct {
	GatewayID string `json:"gateway_id"`

	// EventID is the gateway-specific event ID (e.g. evt_xxx for Stripe).
	EventID string `json:"event_id"`

	// RawType is the provider's raw event type string
	// (e.g. "payment_intent.succeeded").
	RawType string `json:"raw_type"`

	// NormalizedType is the gateway-agnostic classification of RawType.
	NormalizedType EventType `json:"normalized_type"`

	// CreatedAt is the provider's event creation time, epoch seconds.
	CreatedAt int64 `json:"created_at"`

	// Verified reports whether signature verification succeeded.
	Verified bool `json:"verified"`

	// RelatedObjectID is the ID of the object the event is about
	// (payment intent, refund, subscription, ...).
	RelatedObjectID string `json:"related_object_id,omitempty"`

	// Metadata carries selected provider metadata fields.
	Metadata map[string]string `json:"metadata,omitempty"`

	// RawObject is the provider's event data object, untouched.
	RawObject json.RawMessage `json:"raw_object,omitempty"`
}
