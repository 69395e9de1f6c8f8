package sched

import (
	"context"
	"time"

	"edu-entitlement-platform/internal/infra/metrics"
	"edu-entitlement-platform/internal/usecase"

	"github.com/rs/zerolog"
)

// BadgeWorker periodically refreshes the pending-request badge count and the
// admin dashboard gauges.
type BadgeWorker struct {
	interval time.Duration
	stats    *usecase.StatsUseCase
	log      *zerolog.Logger
}

func NewBadgeWorker(interval time.Duration, stats *usecase.StatsUseCase, logger *zerolog.Logger) *BadgeWorker {
	compLog := logger.With().Str("component", "BadgeWorker").Logger()
	return &BadgeWorker{
		interval: interval,
		stats:    stats,
		log:      &compLog,
	}
}

func (w *BadgeWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting badge worker")
	// Run once on startup, then on every tick
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping badge worker")
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *BadgeWorker) refresh(ctx context.Context) {
	pending, err := w.stats.RefreshPendingCount(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("pending count refresh failed")
	} else {
		metrics.SetPendingRequests(pending)
	}

	active, err := w.stats.ActiveSubscriptions(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("active subscription count failed")
	} else {
		metrics.SetActiveSubscriptions(active)
	}
}
