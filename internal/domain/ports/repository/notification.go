package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// NotificationRepository is the user-facing inbox the ledger writes into but
// does not render.
type NotificationRepository interface {
	Save(ctx context.Context, tx Tx, n *model.Notification) error
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Notification, error)
	// ExistsForItem checks the one-notification-per-subscription invariant.
	ExistsForItem(ctx context.Context, tx Tx, userID, itemID, kind string) (bool, error)
	MarkRead(ctx context.Context, tx Tx, id string) error
	Delete(ctx context.Context, tx Tx, id string) error
}
