package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		name string
		req  CreatePaymentIntentRequest
		want int64
	}{
		{"explicit minor units win", CreatePaymentIntentRequest{AmountCents: 1500, Amount: 20.00}, 1500},
		{"decimal converts to minor units", CreatePaymentIntentRequest{Amount: 19.99}, 1999},
		{"decimal rounds half up", CreatePaymentIntentRequest{Amount: 0.005}, 1},
		{"decimal with float noise", CreatePaymentIntentRequest{Amount: 10.10}, 1010},
		{"zero amount", CreatePaymentIntentRequest{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.AmountInCents())
		})
	}
}

func TestIntentStatusTerminal(t *testing.T) {
	assert.True(t, IntentSucceeded.Terminal())
	assert.True(t, IntentCanceled.Terminal())
	assert.False(t, IntentRequiresAction.Terminal())
	assert.False(t, IntentProcessing.Terminal())
}
