package repository

import (
	"context"

	"edu-entitlement-platform/internal/domain/model"
)

// SubscriptionRequestRepository is the port for pending-payment claims.
type SubscriptionRequestRepository interface {
	Save(ctx context.Context, tx Tx, req *model.SubscriptionRequest) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionRequest, error)
	// List returns requests filtered by status; pass "" for all.
	List(ctx context.Context, tx Tx, status model.RequestStatus) ([]*model.SubscriptionRequest, error)
	CountPending(ctx context.Context) (int, error)
}
