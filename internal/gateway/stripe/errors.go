package stripe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/stripe/stripe-go/v79"

	"ledgerpay/internal/gateway"
)

// opError translates an SDK error into a gateway.OperationError so no
// provider type leaks past this package.
func (g *Gateway) opError(op string, err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		msg := sErr.Msg
		if msg == "" {
			msg = op + " failed"
		}
		return &gateway.OperationError{
			GatewayID: gatewayID,
			Code:      string(sErr.Code),
			Message:   msg,
			Retryable: retryableStripeError(sErr),
			Err:       err,
		}
	}
	return &gateway.OperationError{
		GatewayID: gatewayID,
		Message:   op + " failed",
		Retryable: retryableTransportError(err),
		Err:       err,
	}
}

// retryableStripeError: provider outages and throttling are retryable,
// card and validation errors never are.
func retryableStripeError(sErr *stripe.Error) bool {
	if sErr.HTTPStatusCode >= http.StatusInternalServerError {
		return true
	}
	if sErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	switch sErr.Code {
	case stripe.ErrorCodeRateLimit, stripe.ErrorCodeLockTimeout:
		return true
	}
	return false
}

func retryableTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
