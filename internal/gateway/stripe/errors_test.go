package stripe

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"

	"ledgerpay/internal/gateway"
)

func TestOpError(t *testing.T) {
	g := testGateway()

	t.Run("provider outage is retryable", func(t *testing.T) {
		err := g.opError("create payment intent", &stripe.Error{HTTPStatusCode: 503, Msg: "service unavailable"})
		var opErr *gateway.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.True(t, opErr.Retryable)
		assert.Equal(t, "stripe", opErr.GatewayID)
	})

	t.Run("rate limit is retryable", func(t *testing.T) {
		err := g.opError("create refund", &stripe.Error{HTTPStatusCode: 429, Code: stripe.ErrorCodeRateLimit})
		assert.True(t, gateway.IsRetryable(err))
	})

	t.Run("lock timeout is retryable", func(t *testing.T) {
		err := g.opError("create refund", &stripe.Error{HTTPStatusCode: 400, Code: stripe.ErrorCodeLockTimeout})
		assert.True(t, gateway.IsRetryable(err))
	})

	t.Run("card decline is not retryable", func(t *testing.T) {
		err := g.opError("confirm payment intent", &stripe.Error{
			HTTPStatusCode: 402,
			Code:           stripe.ErrorCodeCardDeclined,
			Msg:            "Your card was declined.",
		})
		var opErr *gateway.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.False(t, opErr.Retryable)
		assert.Equal(t, string(stripe.ErrorCodeCardDeclined), opErr.Code)
		assert.Contains(t, opErr.Error(), "declined")
	})

	t.Run("connection refused is retryable", func(t *testing.T) {
		err := g.opError("get customer", syscall.ECONNREFUSED)
		assert.True(t, gateway.IsRetryable(err))
	})

	t.Run("plain error is not retryable", func(t *testing.T) {
		cause := errors.New("boom")
		err := g.opError("get customer", cause)
		assert.False(t, gateway.IsRetryable(err))
		assert.ErrorIs(t, err, cause)
	})
}
