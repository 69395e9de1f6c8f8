package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// SubscriptionRepository is the port for entitlement grants.
type SubscriptionRepository interface {
	// Save inserts or updates by subscription id.
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	// FindByUserAndItem returns the single current grant for (user, scope),
	// where itemID is empty for the platform-wide scope.
	FindByUserAndItem(ctx context.Context, tx Tx, userID, itemID string) (*model.Subscription, error)
	// FindByUser returns all of a user's grants, any status.
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)
	// CountActive counts grants whose stored status is Active.
	CountActive(ctx context.Context) (int, error)
}
