//go:build integration
// +build integration

package ledger_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpay/internal/ledger"
	"ledgerpay/internal/testinfra"
)

var pg *testinfra.PostgresContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	pg, err = testinfra.NewPostgres(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to start postgres container: %v", err))
	}

	code := m.Run()

	pg.Cleanup(ctx)
	os.Exit(code)
}

func TestRecordIntegration(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := ledger.NewPgLedger(pg.Pool.Pool, pg.Pool.Builder)

	t.Run("first delivery is recorded", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, "stripe", "evt_int_1", "PAYMENT_SUCCEEDED"))
	})

	t.Run("redelivery of the same event is rejected", func(t *testing.T) {
		err := repo.Record(ctx, "stripe", "evt_int_1", "PAYMENT_SUCCEEDED")
		assert.ErrorIs(t, err, ledger.ErrEventAlreadyProcessed)
	})

	t.Run("same event id from another gateway is distinct", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, "braintree", "evt_int_1", "PAYMENT_SUCCEEDED"))
	})
}

func TestPurgeIntegration(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := ledger.NewPgLedger(pg.Pool.Pool, pg.Pool.Builder)

	require.NoError(t, repo.Record(ctx, "stripe", "evt_old", "INVOICE_PAID"))
	_, err := pg.Pool.Pool.Exec(ctx,
		"UPDATE webhook_event_ledger SET processed_at = now() - interval '60 days' WHERE event_id = 'evt_old'")
	require.NoError(t, err)
	require.NoError(t, repo.Record(ctx, "stripe", "evt_new", "INVOICE_PAID"))

	n, err := repo.Purge(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The fresh entry must survive and still deduplicate.
	assert.ErrorIs(t, repo.Record(ctx, "stripe", "evt_new", "INVOICE_PAID"), ledger.ErrEventAlreadyProcessed)
}
