package model

import (
	"time"

	"edu-entitlement-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "Active"
	SubscriptionStatusExpired SubscriptionStatus = "Expired"
)

// Subscription represents one entitlement grant for one user to one scope.
// Scope is the ItemID: a unit/subject id, or empty for the whole platform.
type Subscription struct {
	ID        string // UUID
	UserID    string
	TeacherID string // optional, set when granted via a teacher-scoped code
	ItemID    string // empty means platform-wide
	ItemName  string
	ItemType  string // "unit" | "subject" | "platform"
	Plan      Plan
	StartDate time.Time
	EndDate   time.Time
	Status    SubscriptionStatus
}

// NewSubscription creates an active subscription starting now. When override is
// non-zero it replaces the plan-derived end date.
func NewSubscription(id, userID, itemID string, plan Plan, override time.Time) (*Subscription, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	end := plan.EndDate(now)
	if !override.IsZero() {
		end = override
	}
	itemType := "unit"
	if itemID == "" {
		itemType = "platform"
	}
	return &Subscription{
		ID:        id,
		UserID:    userID,
		ItemID:    itemID,
		ItemType:  itemType,
		Plan:      plan,
		StartDate: now,
		EndDate:   end,
		Status:    SubscriptionStatusActive,
	}, nil
}

// IsCurrent is the derived entitlement predicate. The stored status flag alone
// is never trusted: a subscription whose EndDate has passed is expired even if
// no write ever flipped Status.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && !s.EndDate.Before(now)
}

// IsPlatformWide reports whether this grant covers every scope.
func (s *Subscription) IsPlatformWide() bool { return s.ItemID == "" }
