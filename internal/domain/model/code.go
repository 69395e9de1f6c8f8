package model

import (
	"time"

	"edu-entitlement-platform/internal/domain"
)

// PrepaidCode is a bearer token entitling its redeemer to a time-bounded
// subscription, optionally scoped to one teacher, with a use-count ceiling.
type PrepaidCode struct {
	Code          string // unique, XXXX-XXXX-XXXX
	TeacherID     string // optional; empty means platform-wide grant
	DurationDays  int
	MaxUses       int
	TimesUsed     int
	UsedByUserIDs []string
	CreatedAt     time.Time
}

// NewPrepaidCode validates and constructs a code.
func NewPrepaidCode(code, teacherID string, durationDays, maxUses int) (*PrepaidCode, error) {
	if code == "" || durationDays < 1 || maxUses < 1 {
		return nil, domain.ErrInvalidArgument
	}
	return &PrepaidCode{
		Code:         code,
		TeacherID:    teacherID,
		DurationDays: durationDays,
		MaxUses:      maxUses,
		CreatedAt:    time.Now(),
	}, nil
}

// Exhausted reports whether the code can no longer be redeemed by anyone,
// including users who already redeemed it.
func (c *PrepaidCode) Exhausted() bool { return c.TimesUsed >= c.MaxUses }

// MarkRedeemed records one successful redemption. TimesUsed never exceeds
// MaxUses.
func (c *PrepaidCode) MarkRedeemed(userID string) error {
	if c.Exhausted() {
		return domain.ErrCodeExhausted
	}
	c.TimesUsed++
	c.UsedByUserIDs = append(c.UsedByUserIDs, userID)
	return nil
}
