package logging

import (
	"context"

	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain/ports/adapter"
)

var _ adapter.ActivitySink = (*ActivityLog)(nil)

// ActivityLog records the ledger's one-line audit strings through the
// structured logger. The lines are free text for operators; nothing parses
// them.
type ActivityLog struct {
	log *zerolog.Logger
}

func NewActivityLog(logger *zerolog.Logger) *ActivityLog {
	actLog := logger.With().Str("component", "activity").Logger()
	return &ActivityLog{log: &actLog}
}

func (a *ActivityLog) Record(ctx context.Context, line string) {
	a.log.Info().Msg(line)
}
