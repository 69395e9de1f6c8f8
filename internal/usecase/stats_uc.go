package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain/ports/repository"
)

// BadgeCache is a short-TTL cache for the admin pending-request badge, so the
// UI poll does not hit the store on every refresh. A miss is not an error.
type BadgeCache interface {
	GetPendingCount(ctx context.Context) (int, bool)
	SetPendingCount(ctx context.Context, n int)
}

// StatsUseCase serves the admin dashboard counters.
type StatsUseCase struct {
	requests repository.SubscriptionRequestRepository
	subs     repository.SubscriptionRepository
	badge    BadgeCache // optional
	log      *zerolog.Logger
}

func NewStatsUseCase(requests repository.SubscriptionRequestRepository, subs repository.SubscriptionRepository, badge BadgeCache, logger *zerolog.Logger) *StatsUseCase {
	statsLog := logger.With().Str("component", "StatsUseCase").Logger()
	return &StatsUseCase{requests: requests, subs: subs, badge: badge, log: &statsLog}
}

// PendingRequests returns the pending-request count, served from the badge
// cache when warm.
func (uc *StatsUseCase) PendingRequests(ctx context.Context) (int, error) {
	if uc.badge != nil {
		if n, ok := uc.badge.GetPendingCount(ctx); ok {
			return n, nil
		}
	}
	n, err := uc.requests.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	if uc.badge != nil {
		uc.badge.SetPendingCount(ctx, n)
	}
	return n, nil
}

// RefreshPendingCount bypasses the cache and rewrites it; the badge worker
// calls this on its fixed interval.
func (uc *StatsUseCase) RefreshPendingCount(ctx context.Context) (int, error) {
	n, err := uc.requests.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	if uc.badge != nil {
		uc.badge.SetPendingCount(ctx, n)
	}
	return n, nil
}

// ActiveSubscriptions counts grants whose stored status is Active.
func (uc *StatsUseCase) ActiveSubscriptions(ctx context.Context) (int, error) {
	return uc.subs.CountActive(ctx)
}
