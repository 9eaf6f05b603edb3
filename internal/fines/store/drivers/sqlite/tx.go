package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/finepay/internal/fines/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                     { return &usersRepo{db: t.tx} }
func (t *txStore) Vehicles() store.Vehicles               { return &vehiclesRepo{db: t.tx} }
func (t *txStore) Reference() store.Reference             { return &referenceRepo{db: t.tx} }
func (t *txStore) Fines() store.Fines                     { return &finesRepo{db: t.tx} }
func (t *txStore) Payments() store.Payments               { return &paymentsRepo{db: t.tx} }
func (t *txStore) PaymentSessions() store.PaymentSessions { return &sessionsRepo{db: t.tx} }

// ApplyMigrations is a no-op; migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }
