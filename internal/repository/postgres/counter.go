package postgres

import (
	"context"
	"database/sql"

	"github.com/billbook/billbook/internal/domain/invoice"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/cockroachdb/errors"
)

// counterRowID is the primary key of the singleton counter row
const counterRowID = 1

type counterRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCounterRepository(db *postgres.DB, logger *logger.Logger) invoice.CounterRepository {
	return &counterRepository{db: db, logger: logger}
}

func (r *counterRepository) Get(ctx context.Context) (*invoice.Counter, error) {
	query := `
		SELECT current_invoice_no, prefix, updated_at
		FROM invoice_counter
		WHERE id = $1`

	return r.get(ctx, query)
}

// GetForUpdate must run inside WithTx; outside a transaction the lock is
// released as soon as the statement finishes.
func (r *counterRepository) GetForUpdate(ctx context.Context) (*invoice.Counter, error) {
	if _, ok := postgres.GetTx(ctx); !ok {
		r.logger.Warnw("locking invoice counter outside a transaction")
	}

	query := `
		SELECT current_invoice_no, prefix, updated_at
		FROM invoice_counter
		WHERE id = $1
		FOR UPDATE`

	return r.get(ctx, query)
}

func (r *counterRepository) Increment(ctx context.Context) (int64, error) {
	query := `
		UPDATE invoice_counter
		SET current_invoice_no = current_invoice_no + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING current_invoice_no`

	var current int64
	err := r.db.GetQuerier(ctx).QueryRowxContext(ctx, query, counterRowID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, counterNotInitialized(err)
		}
		return 0, ierr.FromStorage(err, "Failed to advance invoice counter")
	}
	return current, nil
}

func (r *counterRepository) get(ctx context.Context, query string) (*invoice.Counter, error) {
	var c invoice.Counter
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, counterRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, counterNotInitialized(err)
		}
		return nil, ierr.FromStorage(err, "Failed to read invoice counter")
	}
	return &c, nil
}

func counterNotInitialized(err error) error {
	return ierr.WithError(err).
		WithHint("Invoice counter not initialized").
		Mark(ierr.ErrNotInitialized)
}
