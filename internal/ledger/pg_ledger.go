// Package ledger persists which webhook events have already been
// dispatched, so provider redeliveries are acknowledged without running
// the handlers twice.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"ledgerpay/pkg/postgres"
)

// ErrEventAlreadyProcessed reports a duplicate delivery. Callers must
// still acknowledge the webhook.
var ErrEventAlreadyProcessed = errors.New("event already processed")

// Ledger records processed webhook events.
type Ledger interface {
	Record(ctx context.Context, gatewayID, eventID, eventType string) error
}

type PgLedger struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ Ledger = (*PgLedger)(nil)

func NewPgLedger(db postgres.Executor, builder squirrel.StatementBuilderType) *PgLedger {
	return &PgLedger{db: db, builder: builder}
}

// Record inserts the (gateway, event) pair. A second insert of the same
// pair returns ErrEventAlreadyProcessed.
func (r *PgLedger) Record(ctx context.Context, gatewayID, eventID, eventType string) error {
	query, args, err := r.builder.Insert("webhook_event_ledger").
		Columns("gateway_id", "event_id", "event_type", "processed_at").
		Values(gatewayID, eventID, eventType, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if postgres.IsPgErrorUniqueViolation(err) {
		return ErrEventAlreadyProcessed
	}
	if err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}
	return nil
}

// Purge deletes ledger entries older than the retention window and
// returns how many rows were removed.
func (r *PgLedger) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := r.builder.Delete("webhook_event_ledger").
		Where(squirrel.Lt{"processed_at": time.Now().UTC().Add(-olderThan)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge webhook events: %w", err)
	}
	return tag.RowsAffected(), nil
}
