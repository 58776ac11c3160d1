package gateway

import "context"

// PaymentGateway is the provider-agnostic payment surface. Implementations
// wrap one provider's SDK and translate its types and errors; callers never
// see provider types.
type PaymentGateway interface {
	// ID is the registry key, lowercase.
	ID() string
	// Name is the human-readable provider name.
	Name() string
	// Available reports whether the gateway holds the credentials it
	// needs. It is re-checked on every factory lookup.
	Available() bool

	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, req UpdateCustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error

	CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, intentID string, amountCents int64) (*PaymentIntent, error)

	CreateSetupIntent(ctx context.Context, req CreateSetupIntentRequest) (*SetupIntent, error)
	ConfirmSetupIntent(ctx context.Context, setupIntentID, paymentMethodID string) (*SetupIntent, error)
	GetSetupIntent(ctx context.Context, setupIntentID string) (*SetupIntent, error)

	GetPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	CreateRefund(ctx context.Context, req CreateRefundRequest) (*Refund, error)
	GetRefund(ctx context.Context, refundID string) (*Refund, error)

	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) (*Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	CreateConnectedAccount(ctx context.Context, req CreateConnectedAccountRequest) (*ConnectedAccount, error)
	GetConnectedAccount(ctx context.Context, accountID string) (*ConnectedAccount, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreateTransfer(ctx context.Context, req CreateTransferRequest) (*Transfer, error)

	CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (*CheckoutSession, error)

	// WebhookSignatureHeader names the HTTP header carrying the webhook
	// signature for this provider.
	WebhookSignatureHeader() string
	// VerifyWebhookSignature checks the raw payload against the signature
	// header. It returns ErrInvalidSignature on any mismatch, malformed
	// header or stale timestamp.
	VerifyWebhookSignature(payload []byte, sigHeader string) error
	// ParseWebhookEvent verifies and normalizes a raw webhook payload.
	ParseWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error)
}
