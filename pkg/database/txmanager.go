package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxManager runs a function inside one atomic unit. Every state
// transition that touches both a reservation and its bed goes through
// Do so the two writes commit or roll back together. Calling Do on a
// context that already carries a transaction joins it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type txContextKey struct{}

// withTx stashes the open transaction in the context for repositories
// to pick up via QuerierFrom.
func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// QuerierFrom returns the transaction bound to ctx if one is open,
// otherwise the fallback (normally the pool).
func QuerierFrom(ctx context.Context, fallback Querier) Querier {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// PgxTxManager implements TxManager over a pgx connection pool.
type PgxTxManager struct {
	db PgxIface
}

func NewTxManager(db PgxIface) *PgxTxManager {
	return &PgxTxManager{db: db}
}

// Do begins a transaction, binds it to the context, and commits when fn
// returns nil. Any error from fn rolls the whole unit back and is
// returned unwrapped so callers can match sentinel errors with
// errors.Is.
func (m *PgxTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
