package localstore

import (
	"context"

	"edu-entitlement-platform/internal/domain/ports/repository"
)

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager implements repository.TransactionManager over the flat store.
// Transactions are serialized by a single mutex, so every multi-step ledger
// effect runs one at a time; rollback restores the pre-transaction snapshot.
// The tx handle passed to fn is always NoTX, since the store has no
// per-connection state.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	before, err := m.store.dump()
	if err != nil {
		return err
	}
	if err := fn(ctx, repository.NoTX); err != nil {
		if rbErr := m.store.restore(before); rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

// WithLockedTx is identical to WithTx here: the transaction mutex already
// serializes all writers in-process, which covers the per-code exclusivity
// the ledger asks for.
func (m *TxManager) WithLockedTx(ctx context.Context, key string, fn func(ctx context.Context, tx repository.Tx) error) error {
	return m.WithTx(ctx, fn)
}
