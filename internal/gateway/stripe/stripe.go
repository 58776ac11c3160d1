package stripe

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"ledgerpay/internal/gateway"
)

const (
	gatewayID       = "stripe"
	gatewayName     = "Stripe"
	signatureHeader = "Stripe-Signature"
)

// Config carries the Stripe credentials. WebhookTolerance bounds how old a
// signed webhook timestamp may be; zero means the 5 minute default.
type Config struct {
	APIKey               string
	WebhookSecret        string
	ConnectWebhookSecret string
	WebhookTolerance     time.Duration
}

// Gateway implements gateway.PaymentGateway on the Stripe API. All calls go
// through a dedicated client, never the SDK's global state.
type Gateway struct {
	client *client.API
	cfg    Config
}

func New(cfg Config) *Gateway {
	if cfg.WebhookTolerance <= 0 {
		cfg.WebhookTolerance = 5 * time.Minute
	}
	sc := &client.API{}
	sc.Init(cfg.APIKey, nil)
	return &Gateway{client: sc, cfg: cfg}
}

func (g *Gateway) ID() string      { return gatewayID }
func (g *Gateway) Name() string    { return gatewayName }
func (g *Gateway) Available() bool { return g.cfg.APIKey != "" }

func (g *Gateway) CreateCustomer(ctx context.Context, req gateway.CreateCustomerRequest) (*gateway.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	params.Context = ctx
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	if req.Phone != "" {
		params.Phone = stripe.String(req.Phone)
	}
	if req.UserID != "" {
		params.AddMetadata("user_id", req.UserID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cust, err := g.client.Customers.New(params)
	if err != nil {
		return nil, g.opError("create customer", err)
	}
	return toCustomer(cust), nil
}

func (g *Gateway) GetCustomer(ctx context.Context, customerID string) (*gateway.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := g.client.Customers.Get(customerID, params)
	if err != nil {
		return nil, g.opError("get customer", err)
	}
	return toCustomer(cust), nil
}

func (g *Gateway) UpdateCustomer(ctx context.Context, customerID string, req gateway.UpdateCustomerRequest) (*gateway.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != nil {
		params.Email = stripe.String(*req.Email)
	}
	if req.Name != nil {
		params.Name = stripe.String(*req.Name)
	}
	if req.Phone != nil {
		params.Phone = stripe.String(*req.Phone)
	}

	cust, err := g.client.Customers.Update(customerID, params)
	if err != nil {
		return nil, g.opError("update customer", err)
	}
	return toCustomer(cust), nil
}

func (g *Gateway) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := g.client.Customers.Del(customerID, params); err != nil {
		return g.opError("delete customer", err)
	}
	return nil
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, req gateway.CreatePaymentIntentRequest) (*gateway.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountInCents()),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
	}
	if req.ConfirmImmediately {
		params.Confirm = stripe.Bool(true)
	}
	if req.OffSession {
		params.OffSession = stripe.Bool(true)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.CaptureMethod == gateway.CaptureManual {
		params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	}
	if req.ConnectedAccountID != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.ConnectedAccountID),
		}
		if req.ApplicationFeeCents > 0 {
			params.ApplicationFeeAmount = stripe.Int64(req.ApplicationFeeCents)
		}
	}
	// Keyed on the order so a network retry cannot double-charge.
	if req.OrderID != "" {
		params.IdempotencyKey = stripe.String(req.OrderID)
		params.AddMetadata("order_id", req.OrderID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return nil, g.opError("create payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *Gateway) GetPaymentIntent(ctx context.Context, intentID string) (*gateway.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.client.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, g.opError("get payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *Gateway) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*gateway.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}

	pi, err := g.client.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return nil, g.opError("confirm payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *Gateway) CancelPaymentIntent(ctx context.Context, intentID string) (*gateway.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	pi, err := g.client.PaymentIntents.Cancel(intentID, params)
	if err != nil {
		return nil, g.opError("cancel payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *Gateway) CapturePaymentIntent(ctx context.Context, intentID string, amountCents int64) (*gateway.PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if amountCents > 0 {
		params.AmountToCapture = stripe.Int64(amountCents)
	}

	pi, err := g.client.PaymentIntents.Capture(intentID, params)
	if err != nil {
		return nil, g.opError("capture payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

func (g *Gateway) CreateSetupIntent(ctx context.Context, req gateway.CreateSetupIntentRequest) (*gateway.SetupIntent, error) {
	params := &stripe.SetupIntentParams{}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	usage := req.Usage
	if usage == "" {
		usage = "off_session"
	}
	params.Usage = stripe.String(usage)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	si, err := g.client.SetupIntents.New(params)
	if err != nil {
		return nil, g.opError("create setup intent", err)
	}
	return toSetupIntent(si), nil
}

func (g *Gateway) ConfirmSetupIntent(ctx context.Context, setupIntentID, paymentMethodID string) (*gateway.SetupIntent, error) {
	params := &stripe.SetupIntentConfirmParams{}
	params.Context = ctx
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}

	si, err := g.client.SetupIntents.Confirm(setupIntentID, params)
	if err != nil {
		return nil, g.opError("confirm setup intent", err)
	}
	return toSetupIntent(si), nil
}

func (g *Gateway) GetSetupIntent(ctx context.Context, setupIntentID string) (*gateway.SetupIntent, error) {
	params := &stripe.SetupIntentParams{}
	params.Context = ctx

	si, err := g.client.SetupIntents.Get(setupIntentID, params)
	if err != nil {
		return nil, g.opError("get setup intent", err)
	}
	return toSetupIntent(si), nil
}

func (g *Gateway) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*gateway.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := g.client.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return nil, g.opError("get payment method", err)
	}
	return toPaymentMethod(pm, false), nil
}

func (g *Gateway) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*gateway.PaymentMethod, error) {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	pm, err := g.client.PaymentMethods.Attach(paymentMethodID, params)
	if err != nil {
		return nil, g.opError("attach payment method", err)
	}
	return toPaymentMethod(pm, false), nil
}

func (g *Gateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := g.client.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return g.opError("detach payment method", err)
	}
	return nil
}

func (g *Gateway) ListPaymentMethods(ctx context.Context, customerID string) ([]gateway.PaymentMethod, error) {
	defaultID := ""
	if cust, err := g.GetCustomer(ctx, customerID); err == nil {
		defaultID = cust.DefaultPaymentMethodID
	}

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []gateway.PaymentMethod
	it := g.client.PaymentMethods.List(params)
	for it.Next() {
		pm := it.PaymentMethod()
		methods = append(methods, *toPaymentMethod(pm, pm.ID == defaultID))
	}
	if err := it.Err(); err != nil {
		return nil, g.opError("list payment methods", err)
	}
	return methods, nil
}

func (g *Gateway) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := g.client.Customers.Update(customerID, params); err != nil {
		return g.opError("set default payment method", err)
	}
	return nil
}

func (g *Gateway) CreateRefund(ctx context.Context, req gateway.CreateRefundRequest) (*gateway.Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
	}
	params.Context = ctx
	// Zero amount means refund in full.
	if req.AmountCents > 0 {
		params.Amount = stripe.Int64(req.AmountCents)
	}
	if req.Reason != "" {
		params.Reason = stripe.String(req.Reason)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	ref, err := g.client.Refunds.New(params)
	if err != nil {
		return nil, g.opError("create refund", err)
	}
	return toRefund(ref), nil
}

func (g *Gateway) GetRefund(ctx context.Context, refundID string) (*gateway.Refund, error) {
	params := &stripe.RefundParams{}
	params.Context = ctx

	ref, err := g.client.Refunds.Get(refundID, params)
	if err != nil {
		return nil, g.opError("get refund", err)
	}
	return toRefund(ref), nil
}

func (g *Gateway) CreateSubscription(ctx context.Context, req gateway.CreateSubscriptionRequest) (*gateway.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(req.PriceID)},
		},
	}
	params.Context = ctx
	if req.TrialPeriodDays > 0 {
		params.TrialPeriodDays = stripe.Int64(req.TrialPeriodDays)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sub, err := g.client.Subscriptions.New(params)
	if err != nil {
		return nil, g.opError("create subscription", err)
	}
	return toSubscription(sub), nil
}

func (g *Gateway) CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) (*gateway.Subscription, error) {
	if atPeriodEnd {
		params := &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		}
		params.Context = ctx
		sub, err := g.client.Subscriptions.Update(subscriptionID, params)
		if err != nil {
			return nil, g.opError("cancel subscription", err)
		}
		return toSubscription(sub), nil
	}

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	sub, err := g.client.Subscriptions.Cancel(subscriptionID, params)
	if err != nil {
		return nil, g.opError("cancel subscription", err)
	}
	return toSubscription(sub), nil
}

func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.client.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, g.opError("get subscription", err)
	}
	return toSubscription(sub), nil
}

func (g *Gateway) CreateConnectedAccount(ctx context.Context, req gateway.CreateConnectedAccountRequest) (*gateway.ConnectedAccount, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
	}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Country != "" {
		params.Country = stripe.String(req.Country)
	}
	if req.BusinessType != "" {
		params.BusinessType = stripe.String(req.BusinessType)
	}
	if req.BusinessName != "" || req.BusinessPhone != "" {
		params.BusinessProfile = &stripe.AccountBusinessProfileParams{}
		if req.BusinessName != "" {
			params.BusinessProfile.Name = stripe.String(req.BusinessName)
		}
		if req.BusinessPhone != "" {
			params.BusinessProfile.SupportPhone = stripe.String(req.BusinessPhone)
		}
	}
	if req.StoreID != "" {
		params.AddMetadata("store_id", req.StoreID)
	}

	acct, err := g.client.Accounts.New(params)
	if err != nil {
		return nil, g.opError("create connected account", err)
	}
	return toConnectedAccount(acct), nil
}

func (g *Gateway) GetConnectedAccount(ctx context.Context, accountID string) (*gateway.ConnectedAccount, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := g.client.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, g.opError("get connected account", err)
	}
	return toConnectedAccount(acct), nil
}

func (g *Gateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := g.client.AccountLinks.New(params)
	if err != nil {
		return "", g.opError("create account link", err)
	}
	return link.URL, nil
}

func (g *Gateway) CreateTransfer(ctx context.Context, req gateway.CreateTransferRequest) (*gateway.Transfer, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(req.Currency),
		Destination: stripe.String(req.DestinationAccountID),
	}
	params.Context = ctx
	if req.TransferGroup != "" {
		params.TransferGroup = stripe.String(req.TransferGroup)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	tr, err := g.client.Transfers.New(params)
	if err != nil {
		return nil, g.opError("create transfer", err)
	}
	return toTransfer(tr), nil
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req gateway.CreateCheckoutSessionRequest) (*gateway.CheckoutSession, error) {
	mode := req.Mode
	if mode == "" {
		mode = string(stripe.CheckoutSessionModeSubscription)
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(mode),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, g.opError("create checkout session", err)
	}
	return toCheckoutSession(sess), nil
}
