package stripe

import (
	"encoding/json"

	"github.com/stripe/stripe-go/v79"

	"ledgerpay/internal/gateway"
)

var eventTypeMap = map[stripe.EventType]gateway.EventType{
	"payment_intent.succeeded":       gateway.EventPaymentSucceeded,
	"payment_intent.payment_failed":  gateway.EventPaymentFailed,
	"payment_intent.canceled":        gateway.EventPaymentCanceled,
	"payment_intent.requires_action": gateway.EventPaymentRequiresAction,

	"setup_intent.succeeded":    gateway.EventSetupSucceeded,
	"setup_intent.setup_failed": gateway.EventSetupFailed,

	"charge.refunded": gateway.EventRefundCreated,
	"refund.created":  gateway.EventRefundCreated,
	"refund.updated":  gateway.EventRefundSucceeded,
	"refund.failed":   gateway.EventRefundFailed,

	"account.updated":    gateway.EventAccountUpdated,
	"capability.updated": gateway.EventAccountCapabilityUpdated,

	"transfer.created":  gateway.EventTransferCreated,
	"transfer.updated":  gateway.EventTransferUpdated,
	"transfer.reversed": gateway.EventTransferReversed,

	"payout.created": gateway.EventPayoutCreated,
	"payout.paid":    gateway.EventPayoutPaid,
	"payout.failed":  gateway.EventPayoutFailed,

	"customer.subscription.created": gateway.EventSubscriptionCreated,
	"customer.subscription.updated": gateway.EventSubscriptionUpdated,
	"customer.subscription.deleted": gateway.EventSubscriptionDeleted,

	"invoice.paid":           gateway.EventInvoicePaid,
	"invoice.payment_failed": gateway.EventInvoicePaymentFailed,

	"checkout.session.completed": gateway.EventCheckoutSessionCompleted,
}

// eventObject is the subset of any Stripe event data object needed for
// normalization.
type eventObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

func toWebhookEvent(event stripe.Event) *gateway.WebhookEvent {
	var obj eventObject
	// Best effort; events with unexpected shapes still dispatch.
	_ = json.Unmarshal(event.Data.Raw, &obj)

	return &gateway.WebhookEvent{
		GatewayID:       gatewayID,
		EventID:         event.ID,
		RawType:         string(event.Type),
		NormalizedType:  normalizedType(event.Type),
		CreatedAt:       event.Created,
		Verified:        true,
		RelatedObjectID: obj.ID,
		Metadata:        obj.Metadata,
		RawObject:       event.Data.Raw,
	}
}

// normalizedType classifies a raw Stripe event type. Classification
// depends on the raw type alone, never on the payload; two deliveries of
// the same raw type always normalize identically.
func normalizedType(raw stripe.EventType) gateway.EventType {
	if t, ok := eventTypeMap[raw]; ok {
		return t
	}
	return gateway.EventUnknown
}
