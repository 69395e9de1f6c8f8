package repository

import "context"

// Tx is an opaque transaction handle. Its concrete type is infra-defined
// (pgx.Tx for Postgres, nil for the local snapshot store). Repositories must
// gracefully accept NoTX (the non-transactional path).
type Tx interface{}

var NoTX Tx

// TransactionManager executes a function within a storage transaction, passing
// the backend's transaction handle through tx. Multi-step ledger effects
// (approve request + upsert subscription; redeem code + grant N subscriptions)
// run through this so a failure partway through rolls back instead of leaving
// partial state.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// WithLockedTx additionally serializes on key for the duration of the
	// transaction. Two concurrent redemptions of a code with max_uses=1 must
	// not both succeed; the Postgres backend takes an advisory xact lock on
	// a hash of key, the local store is already mutex-serial.
	WithLockedTx(ctx context.Context, key string, fn func(ctx context.Context, tx Tx) error) error
}
