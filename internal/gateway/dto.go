package gateway

import "math"

// Customer is a gateway-issued customer record. Customers are created on
// the first payment relationship and never deleted locally; providers only
// flag them deleted.
type Customer struct {
	ID                     string            `json:"id"`
	Email                  string            `json:"email,omitempty"`
	Name                   string            `json:"name,omitempty"`
	Phone                  string            `json:"phone,omitempty"`
	DefaultPaymentMethodID string            `json:"default_payment_method_id,omitempty"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	CreatedAt              int64             `json:"created_at,omitempty"`
	Deleted                bool              `json:"deleted,omitempty"`
}

// IntentStatus is the lifecycle state of a payment or setup intent.
//
// requires_payment_method -> requires_confirmation -> requires_action ->
// processing -> succeeded | canceled. Failure during confirmation does not
// force a terminal state; the intent stays confirmable with a new payment
// method.
type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentCanceled              IntentStatus = "canceled"
)

// Terminal reports whether the status ends the intent lifecycle.
func (s IntentStatus) Terminal() bool {
	return s == IntentSucceeded || s == IntentCanceled
}

// CaptureMethod selects automatic or manual capture for a payment intent.
type CaptureMethod string

const (
	CaptureAutomatic CaptureMethod = "automatic"
	CaptureManual    CaptureMethod = "manual"
)

// PaymentIntent represents one attempted charge and its lifecycle.
type PaymentIntent struct {
	ID              string        `json:"id"`
	AmountCents     int64         `json:"amount_cents"`
	Currency        string        `json:"currency"`
	Status          IntentStatus  `json:"status"`
	ClientSecret    string        `json:"client_secret,omitempty"`
	CustomerID      string        `json:"customer_id,omitempty"`
	PaymentMethodID string        `json:"payment_method_id,omitempty"`
	CaptureMethod   CaptureMethod `json:"capture_method,omitempty"`
	CreatedAt       int64         `json:"created_at,omitempty"`
}

// SetupIntent saves a payment method without charging. Success yields an
// attached payment-method ID.
type SetupIntent struct {
	ID              string       `json:"id"`
	ClientSecret    string       `json:"client_secret,omitempty"`
	Status          IntentStatus `json:"status"`
	PaymentMethodID string       `json:"payment_method_id,omitempty"`
	CustomerID      string       `json:"customer_id,omitempty"`
}

// PaymentMethod is a saved card or bank account, masked.
type PaymentMethod struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Brand       string          `json:"brand,omitempty"`
	Last4       string          `json:"last4,omitempty"`
	ExpMonth    int64           `json:"exp_month,omitempty"`
	ExpYear     int64           `json:"exp_year,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Billing     *BillingAddress `json:"billing,omitempty"`
	Checks      *CardChecks     `json:"checks,omitempty"`
	IsDefault   bool            `json:"is_default,omitempty"`
}

// BillingAddress is the billing address attached to a payment method.
type BillingAddress struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CardChecks holds AVS/CVC verification results returned by the card
// network: pass, fail, unavailable or unchecked.
type CardChecks struct {
	AddressLine1Check      string `json:"address_line1_check,omitempty"`
	AddressPostalCodeCheck string `json:"address_postal_code_check,omitempty"`
	CVCCheck               string `json:"cvc_check,omitempty"`
}

// Refund is a full or partial refund; a partial refund is the same shape
// with a constrained amount.
type Refund struct {
	ID                   string `json:"id"`
	PaymentIntentID      string `json:"payment_intent_id"`
	AmountCents          int64  `json:"amount_cents"`
	Status               string `json:"status"`
	Reason               string `json:"reason,omitempty"`
	BalanceTransactionID string `json:"balance_transaction_id,omitempty"`
	CreatedAt            int64  `json:"created_at,omitempty"`
}

// SubscriptionStatus is the provider-reported subscription lifecycle state.
type SubscriptionStatus string

const (
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
)

// Subscription is a recurring-billing agreement for a customer.
type Subscription struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customer_id"`
	Status             SubscriptionStatus `json:"status"`
	PriceID            string             `json:"price_id,omitempty"`
	CurrentPeriodStart int64              `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   int64              `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
}

// ConnectedAccount is a marketplace sub-merchant account able to receive
// transfers and payouts.
type ConnectedAccount struct {
	ID               string   `json:"id"`
	Type             string   `json:"type,omitempty"`
	Email            string   `json:"email,omitempty"`
	Country          string   `json:"country,omitempty"`
	ChargesEnabled   bool     `json:"charges_enabled"`
	PayoutsEnabled   bool     `json:"payouts_enabled"`
	DetailsSubmitted bool     `json:"details_submitted"`
	RequirementsDue  []string `json:"requirements_due,omitempty"`
}

// Transfer moves funds to a connected account.
type Transfer struct {
	ID                   string `json:"id"`
	AmountCents          int64  `json:"amount_cents"`
	Currency             string `json:"currency"`
	DestinationAccountID string `json:"destination_account_id"`
	CreatedAt            int64  `json:"created_at,omitempty"`
}

// CheckoutSession is a provider-hosted checkout flow.
type CheckoutSession struct {
	ID             string `json:"id"`
	URL            string `json:"url,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Status         string `json:"status,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// CreateCustomerRequest creates a customer in the gateway.
type CreateCustomerRequest struct {
	Email    string
	Name     string
	Phone    string
	UserID   string
	Metadata map[string]string
}

// UpdateCustomerRequest updates customer contact details. Nil fields are
// left unchanged.
type UpdateCustomerRequest struct {
	Email *string
	Name  *string
	Phone *string
}

// CreatePaymentIntentRequest creates a payment intent. The amount may be
// given either in minor units (AmountCents) or as a decimal (Amount);
// AmountCents wins when both are set.
type CreatePaymentIntentRequest struct {
	AmountCents         int64
	Amount              float64
	Currency            string
	CustomerID          string
	PaymentMethodID     string
	ConfirmImmediately  bool
	OffSession          bool
	Description         string
	OrderID             string
	Metadata            map[string]string
	ConnectedAccountID  string
	ApplicationFeeCents int64
	CaptureMethod       CaptureMethod
}

// AmountInCents resolves the charge amount to integer minor units.
func (r CreatePaymentIntentRequest) AmountInCents() int64 {
	if r.AmountCents != 0 {
		return r.AmountCents
	}
	return int64(math.Round(r.Amount * 100))
}

// CreateSetupIntentRequest saves a payment method without charging.
type CreateSetupIntentRequest struct {
	CustomerID string
	Usage      string
	Metadata   map[string]string
}

// CreateRefundRequest refunds a payment intent. A zero AmountCents means a
// full refund; a non-zero amount constrains it to a partial refund.
type CreateRefundRequest struct {
	PaymentIntentID string
	AmountCents     int64
	Reason          string
	Metadata        map[string]string
}

// CreateConnectedAccountRequest onboards a sub-merchant.
type CreateConnectedAccountRequest struct {
	Email         string
	Country       string
	BusinessType  string
	BusinessName  string
	BusinessPhone string
	TaxID         string
	StoreID       string
}

// CreateTransferRequest moves funds to a connected account.
type CreateTransferRequest struct {
	AmountCents          int64
	Currency             string
	DestinationAccountID string
	TransferGroup        string
	Metadata             map[string]string
}

// CreateSubscriptionRequest starts a recurring subscription.
type CreateSubscriptionRequest struct {
	CustomerID      string
	PriceID         string
	TrialPeriodDays int64
	Metadata        map[string]string
}

// CreateCheckoutSessionRequest creates a provider-hosted checkout session.
type CreateCheckoutSessionRequest struct {
	CustomerID string
	PriceID    string
	Mode       string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}
