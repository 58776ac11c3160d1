package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when webhook signature verification fails.
	// The request must be rejected without parsing or dispatching.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnsupportedGateway is returned when the requested gateway ID is
	// unknown or the gateway reports itself unavailable.
	ErrUnsupportedGateway = errors.New("unsupported gateway")

	// ErrNotConfigured is returned by gateway constructors when required
	// credentials are missing.
	ErrNotConfigured = errors.New("gateway not configured")
)

// OperationError wraps a remote-provider failure for any non-webhook
// gateway call. Retryable is the single source of truth callers use to
// decide whether to retry the operation.
type OperationError struct {
	GatewayID string
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e *OperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s gateway: %s (%s)", e.GatewayID, e.Message, e.Code)
	}
	return fmt.Sprintf("%s gateway: %s", e.GatewayID, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a retryable gateway operation failure.
func IsRetryable(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr) && opErr.Retryable
}
