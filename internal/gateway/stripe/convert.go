package stripe

import (
	"github.com/stripe/stripe-go/v79"

	"ledgerpay/internal/gateway"
)

func toCustomer(c *stripe.Customer) *gateway.Customer {
	out := &gateway.Customer{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.Name,
		Phone:     c.Phone,
		Metadata:  c.Metadata,
		CreatedAt: c.Created,
		Deleted:   c.Deleted,
	}
	if c.InvoiceSettings != nil && c.InvoiceSettings.DefaultPaymentMethod != nil {
		out.DefaultPaymentMethodID = c.InvoiceSettings.DefaultPaymentMethod.ID
	}
	return out
}

func toPaymentIntent(pi *stripe.PaymentIntent) *gateway.PaymentIntent {
	out := &gateway.PaymentIntent{
		ID:           pi.ID,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       gateway.IntentStatus(pi.Status),
		ClientSecret: pi.ClientSecret,
		CreatedAt:    pi.Created,
	}
	if pi.Customer != nil {
		out.CustomerID = pi.Customer.ID
	}
	if pi.PaymentMethod != nil {
		out.PaymentMethodID = pi.PaymentMethod.ID
	}
	if pi.CaptureMethod == stripe.PaymentIntentCaptureMethodManual {
		out.CaptureMethod = gateway.CaptureManual
	} else {
		out.CaptureMethod = gateway.CaptureAutomatic
	}
	return out
}

func toSetupIntent(si *stripe.SetupIntent) *gateway.SetupIntent {
	out := &gateway.SetupIntent{
		ID:           si.ID,
		ClientSecret: si.ClientSecret,
		Status:       gateway.IntentStatus(si.Status),
	}
	if si.Customer != nil {
		out.CustomerID = si.Customer.ID
	}
	if si.PaymentMethod != nil {
		out.PaymentMethodID = si.PaymentMethod.ID
	}
	return out
}

func toPaymentMethod(pm *stripe.PaymentMethod, isDefault bool) *gateway.PaymentMethod {
	out := &gateway.PaymentMethod{
		ID:        pm.ID,
		Type:      string(pm.Type),
		IsDefault: isDefault,
	}
	if pm.Card != nil {
		out.Brand = string(pm.Card.Brand)
		out.Last4 = pm.Card.Last4
		out.ExpMonth = pm.Card.ExpMonth
		out.ExpYear = pm.Card.ExpYear
		out.Fingerprint = pm.Card.Fingerprint
		if pm.Card.Checks != nil {
			out.Checks = &gateway.CardChecks{
				AddressLine1Check:      string(pm.Card.Checks.AddressLine1Check),
				AddressPostalCodeCheck: string(pm.Card.Checks.AddressPostalCodeCheck),
				CVCCheck:               string(pm.Card.Checks.CVCCheck),
			}
		}
	}
	if pm.BillingDetails != nil && pm.BillingDetails.Address != nil {
		addr := pm.BillingDetails.Address
		out.Billing = &gateway.BillingAddress{
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}
	return out
}

func toRefund(r *stripe.Refund) *gateway.Refund {
	out := &gateway.Refund{
		ID:          r.ID,
		AmountCents: r.Amount,
		Status:      string(r.Status),
		Reason:      string(r.Reason),
		CreatedAt:   r.Created,
	}
	if r.PaymentIntent != nil {
		out.PaymentIntentID = r.PaymentIntent.ID
	}
	if r.BalanceTransaction != nil {
		out.BalanceTransactionID = r.BalanceTransaction.ID
	}
	return out
}

func toSubscription(s *stripe.Subscription) *gateway.Subscription {
	out := &gateway.Subscription{
		ID:                 s.ID,
		Status:             gateway.SubscriptionStatus(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
		out.PriceID = s.Items.Data[0].Price.ID
	}
	return out
}

func toConnectedAccount(a *stripe.Account) *gateway.ConnectedAccount {
	out := &gateway.ConnectedAccount{
		ID:               a.ID,
		Type:             string(a.Type),
		Email:            a.Email,
		Country:          a.Country,
		ChargesEnabled:   a.ChargesEnabled,
		PayoutsEnabled:   a.PayoutsEnabled,
		DetailsSubmitted: a.DetailsSubmitted,
	}
	if a.Requirements != nil {
		out.RequirementsDue = a.Requirements.CurrentlyDue
	}
	return out
}

func toTransfer(t *stripe.Transfer) *gateway.Transfer {
	out := &gateway.Transfer{
		ID:          t.ID,
		AmountCents: t.Amount,
		Currency:    string(t.Currency),
		CreatedAt:   t.Created,
	}
	if t.Destination != nil {
		out.DestinationAccountID = t.Destination.ID
	}
	return out
}

func toCheckoutSession(s *stripe.CheckoutSession) *gateway.CheckoutSession {
	out := &gateway.CheckoutSession{
		ID:     s.ID,
		URL:    s.URL,
		Mode:   string(s.Mode),
		Status: string(s.Status),
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		out.SubscriptionID = s.Subscription.ID
	}
	return out
}
