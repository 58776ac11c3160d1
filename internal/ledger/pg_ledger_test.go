package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgLedger(mock, squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar))
	ctx := context.Background()

	t.Run("records first delivery", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO webhook_event_ledger \(gateway_id,event_id,event_type,processed_at\) VALUES \(\$1,\$2,\$3,\$4\)`).
			WithArgs("stripe", "evt_1", "PAYMENT_SUCCEEDED", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Record(ctx, "stripe", "evt_1", "PAYMENT_SUCCEEDED")
		require.NoError(t, err)
	})

	t.Run("duplicate delivery yields sentinel", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO webhook_event_ledger`).
			WithArgs("stripe", "evt_1", "PAYMENT_SUCCEEDED", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Record(ctx, "stripe", "evt_1", "PAYMENT_SUCCEEDED")
		assert.ErrorIs(t, err, ErrEventAlreadyProcessed)
	})

	t.Run("other database errors pass through", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		mock.ExpectExec(`INSERT INTO webhook_event_ledger`).
			WithArgs("stripe", "evt_2", "INVOICE_PAID", pgxmock.AnyArg()).
			WillReturnError(dbErr)

		err := repo.Record(ctx, "stripe", "evt_2", "INVOICE_PAID")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEventAlreadyProcessed)
		assert.ErrorIs(t, err, dbErr)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgLedger(mock, squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar))

	mock.ExpectExec(`DELETE FROM webhook_event_ledger WHERE processed_at < \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 42))

	n, err := repo.Purge(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
