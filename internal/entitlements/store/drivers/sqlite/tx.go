package sqlite

import (
	"context"
	"database/sql"

	"github.com/assetdeck/entitlements/internal/entitlements/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the outer DB stays
// open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Licenses() store.Licenses         { return &licensesRepo{db: t.tx} }
func (t *txStore) AccessPasses() store.AccessPasses { return &accessPassesRepo{db: t.tx} }
func (t *txStore) Downloads() store.Downloads       { return &downloadsRepo{db: t.tx} }

// ApplyMigrations is a no-op; migrations are applied before any transaction
// starts.
func (t *txStore) ApplyMigrations() error { return nil }
