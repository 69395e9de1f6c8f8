package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// UserDirectory is the port for user records. The ledger consumes it for
// display names; it does not own these records.
type UserDirectory interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	GetAll(ctx context.Context, tx Tx) ([]*model.User, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
