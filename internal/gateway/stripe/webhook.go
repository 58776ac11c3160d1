package stripe

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"ledgerpay/internal/gateway"
)

func (g *Gateway) WebhookSignatureHeader() string { return signatureHeader }

// VerifyWebhookSignature checks the payload signature against the account
// webhook secret and, when configured, the Connect webhook secret. Connect
// events are signed with their own endpoint secret, so both are tried.
func (g *Gateway) VerifyWebhookSignature(payload []byte, sigHeader string) error {
	_, err := g.constructEvent(payload, sigHeader)
	return err
}

// ParseWebhookEvent verifies the signature and normalizes the event. It
// never fails on an unrecognized event type; those normalize to UNKNOWN.
func (g *Gateway) ParseWebhookEvent(payload []byte, sigHeader string) (*gateway.WebhookEvent, error) {
	event, err := g.constructEvent(payload, sigHeader)
	if err != nil {
		return nil, err
	}
	return toWebhookEvent(event), nil
}

func (g *Gateway) constructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	secrets := g.webhookSecrets()
	if len(secrets) == 0 {
		return stripe.Event{}, fmt.Errorf("stripe webhook secret missing: %w", gateway.ErrNotConfigured)
	}

	// Endpoints are often pinned to an API version older than the one this
	// client library tracks; that mismatch must not reject an authentic
	// delivery.
	opts := webhook.ConstructEventOptions{
		Tolerance:                g.cfg.WebhookTolerance,
		IgnoreAPIVersionMismatch: true,
	}

	var lastErr error
	for _, secret := range secrets {
		event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, opts)
		if err == nil {
			return event, nil
		}
		if !isSignatureError(err) {
			// The signature checked out against this secret; the failure is
			// in the payload itself, so trying another secret would only
			// mask the cause.
			return stripe.Event{}, fmt.Errorf("construct webhook event: %w", err)
		}
		lastErr = err
	}
	return stripe.Event{}, fmt.Errorf("%w: %s", gateway.ErrInvalidSignature, lastErr)
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func (g *Gateway) webhookSecrets() []string {
	var secrets []string
	if g.cfg.WebhookSecret != "" {
		secrets = append(secrets, g.cfg.WebhookSecret)
	}
	if g.cfg.ConnectWebhookSecret != "" {
		secrets = append(secrets, g.cfg.ConnectWebhookSecret)
	}
	return secrets
}
