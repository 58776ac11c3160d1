package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryGateway(t *testing.T) {
	stripe := &fakeGateway{id: "stripe", name: "Stripe", available: true}
	braintree := &fakeGateway{id: "braintree", name: "Braintree", available: false}
	f := NewFactory("stripe", stripe, braintree)

	t.Run("resolves registered available gateway", func(t *testing.T) {
		gw, err := f.Gateway("stripe")
		require.NoError(t, err)
		assert.Equal(t, "stripe", gw.ID())
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		gw, err := f.Gateway("Stripe")
		require.NoError(t, err)
		assert.Equal(t, "stripe", gw.ID())
	})

	t.Run("unknown gateway yields unsupported", func(t *testing.T) {
		_, err := f.Gateway("adyen")
		assert.ErrorIs(t, err, ErrUnsupportedGateway)
	})

	t.Run("unavailable gateway yields not configured", func(t *testing.T) {
		_, err := f.Gateway("braintree")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("find skips availability check", func(t *testing.T) {
		gw, ok := f.Find("braintree")
		require.True(t, ok)
		assert.Equal(t, "braintree", gw.ID())
	})
}

func TestFactoryDefault(t *testing.T) {
	t.Run("configured default wins when available", func(t *testing.T) {
		f := NewFactory("braintree",
			&fakeGateway{id: "stripe", available: true},
			&fakeGateway{id: "braintree", available: true},
		)
		gw, err := f.Default()
		require.NoError(t, err)
		assert.Equal(t, "braintree", gw.ID())
	})

	t.Run("falls back to first available when default is down", func(t *testing.T) {
		f := NewFactory("braintree",
			&fakeGateway{id: "stripe", available: true},
			&fakeGateway{id: "braintree", available: false},
		)
		gw, err := f.Default()
		require.NoError(t, err)
		assert.Equal(t, "stripe", gw.ID())
	})

	t.Run("errors when nothing is available", func(t *testing.T) {
		f := NewFactory("stripe", &fakeGateway{id: "stripe", available: false})
		_, err := f.Default()
		assert.True(t, errors.Is(err, ErrNotConfigured))
	})
}

func TestFactoryStatuses(t *testing.T) {
	f := NewFactory("stripe",
		&fakeGateway{id: "stripe", name: "Stripe", available: true},
		&fakeGateway{id: "braintree", name: "Braintree", available: false},
	)

	statuses := f.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, Status{ID: "stripe", Name: "Stripe", Available: true, IsDefault: true}, statuses[0])
	assert.Equal(t, Status{ID: "braintree", Name: "Braintree", Available: false, IsDefault: false}, statuses[1])

	assert.Equal(t, []string{"stripe"}, f.Available())
	assert.Equal(t, []string{"braintree", "stripe"}, f.All())
}
