package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// PrepaidCodeRepository is the port for prepaid subscription codes.
type PrepaidCodeRepository interface {
	Save(ctx context.Context, tx Tx, code *model.PrepaidCode) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.PrepaidCode, error)
	// Exists is the collision check used during batch generation.
	Exists(ctx context.Context, tx Tx, code string) (bool, error)
	List(ctx context.Context, tx Tx) ([]*model.PrepaidCode, error)
	// Delete backs the explicit admin cleanup action; codes are never
	// deleted as a side effect of redemption.
	Delete(ctx context.Context, tx Tx, code string) error
}
