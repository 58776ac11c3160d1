package stripe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v79"

	"ledgerpay/internal/gateway"
)

func TestNormalizedType(t *testing.T) {
	tests := []struct {
		raw  string
		want gateway.EventType
	}{
		{"payment_intent.succeeded", gateway.EventPaymentSucceeded},
		{"payment_intent.payment_failed", gateway.EventPaymentFailed},
		{"payment_intent.canceled", gateway.EventPaymentCanceled},
		{"payment_intent.requires_action", gateway.EventPaymentRequiresAction},
		{"setup_intent.succeeded", gateway.EventSetupSucceeded},
		{"setup_intent.setup_failed", gateway.EventSetupFailed},
		{"charge.refunded", gateway.EventRefundCreated},
		{"refund.created", gateway.EventRefundCreated},
		{"refund.updated", gateway.EventRefundSucceeded},
		{"refund.failed", gateway.EventRefundFailed},
		{"account.updated", gateway.EventAccountUpdated},
		{"capability.updated", gateway.EventAccountCapabilityUpdated},
		{"transfer.created", gateway.EventTransferCreated},
		{"transfer.updated", gateway.EventTransferUpdated},
		{"transfer.reversed", gateway.EventTransferReversed},
		{"payout.created", gateway.EventPayoutCreated},
		{"payout.paid", gateway.EventPayoutPaid},
		{"payout.failed", gateway.EventPayoutFailed},
		{"customer.subscription.created", gateway.EventSubscriptionCreated},
		{"customer.subscription.updated", gateway.EventSubscriptionUpdated},
		{"customer.subscription.deleted", gateway.EventSubscriptionDeleted},
		{"invoice.paid", gateway.EventInvoicePaid},
		{"invoice.payment_failed", gateway.EventInvoicePaymentFailed},
		{"checkout.session.completed", gateway.EventCheckoutSessionCompleted},
		{"some.future.event", gateway.EventUnknown},
		{"", gateway.EventUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := normalizedType(stripe.EventType(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedTypeIgnoresPayload(t *testing.T) {
	completed := stripe.Event{
		ID:   "evt_a",
		Type: "account.updated",
		Data: &stripe.EventData{Raw: json.RawMessage(`{"id":"acct_1","details_submitted":true,"charges_enabled":true}`)},
	}
	pending := stripe.Event{
		ID:   "evt_b",
		Type: "account.updated",
		Data: &stripe.EventData{Raw: json.RawMessage(`{"id":"acct_1","details_submitted":false,"charges_enabled":false}`)},
	}

	assert.Equal(t, gateway.EventAccountUpdated, toWebhookEvent(completed).NormalizedType)
	assert.Equal(t, gateway.EventAccountUpdated, toWebhookEvent(pending).NormalizedType)
}

func TestToWebhookEvent(t *testing.T) {
	raw := json.RawMessage(`{"id":"pi_123","metadata":{"order_id":"ord_9"}}`)
	event := stripe.Event{
		ID:      "evt_1",
		Type:    "payment_intent.succeeded",
		Created: 1700000000,
		Data:    &stripe.EventData{Raw: raw},
	}

	got := toWebhookEvent(event)
	assert.Equal(t, "stripe", got.GatewayID)
	assert.Equal(t, "evt_1", got.EventID)
	assert.Equal(t, "payment_intent.succeeded", got.RawType)
	assert.Equal(t, gateway.EventPaymentSucceeded, got.NormalizedType)
	assert.Equal(t, int64(1700000000), got.CreatedAt)
	assert.True(t, got.Verified)
	assert.Equal(t, "pi_123", got.RelatedObjectID)
	assert.Equal(t, map[string]string{"order_id": "ord_9"}, got.Metadata)
	assert.JSONEq(t, string(raw), string(got.RawObject))
}
