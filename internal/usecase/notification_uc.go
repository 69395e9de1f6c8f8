package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

// expiryWindow is how far ahead of a subscription's end date the reminder is
// generated.
const expiryWindow = 7 * 24 * time.Hour

// NotificationUseCase derives expiry reminders and fronts the inbox.
type NotificationUseCase struct {
	subs  repository.SubscriptionRepository
	inbox repository.NotificationRepository
	log   *zerolog.Logger
}

func NewNotificationUseCase(subs repository.SubscriptionRepository, inbox repository.NotificationRepository, logger *zerolog.Logger) *NotificationUseCase {
	notifLog := logger.With().Str("component", "NotificationUseCase").Logger()
	return &NotificationUseCase{subs: subs, inbox: inbox, log: &notifLog}
}

// GenerateExpiryReminders scans the user's active subscriptions and creates
// one reminder for each ending within seven days, keyed to the subscription
// id. Generation is a no-op when a reminder already exists, so it is safe to
// call on every session load. Returns the number of reminders created.
func (uc *NotificationUseCase) GenerateExpiryReminders(ctx context.Context, userID string) (int, error) {
	subs, err := uc.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	created := 0
	for _, sub := range subs {
		if sub.Status != model.SubscriptionStatusActive {
			continue
		}
		if sub.EndDate.After(now.Add(expiryWindow)) {
			continue
		}
		exists, err := uc.inbox.ExistsForItem(ctx, repository.NoTX, userID, sub.ID, model.NotificationTypeSubscription)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		title, msg := reminderText(sub, now)
		n := &model.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     title,
			Message:   msg,
			Type:      model.NotificationTypeSubscription,
			ItemID:    sub.ID,
			CreatedAt: now,
			Link:      "/subscriptions",
		}
		if err := uc.inbox.Save(ctx, repository.NoTX, n); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		uc.log.Info().Str("user_id", userID).Int("count", created).Msg("expiry reminders created")
	}
	return created, nil
}

// reminderText picks the day-count-sensitive message variant.
func reminderText(sub *model.Subscription, now time.Time) (title, msg string) {
	scope := sub.ItemName
	if scope == "" {
		scope = "the platform"
	}
	title = "Subscription expiring"

	if sub.EndDate.Before(now) {
		title = "Subscription expired"
		msg = fmt.Sprintf("Your subscription for %s has already expired. Renew to keep access.", scope)
		return title, msg
	}
	days := int(sub.EndDate.Sub(now).Hours() / 24)
	if days <= 1 {
		msg = fmt.Sprintf("Your subscription for %s expires in 1 day.", scope)
		return title, msg
	}
	msg = fmt.Sprintf("Your subscription for %s expires in %d days.", scope, days)
	return title, msg
}

// Inbox returns all of the user's notifications, newest first ordering is the
// store's concern.
func (uc *NotificationUseCase) Inbox(ctx context.Context, userID string) ([]*model.Notification, error) {
	return uc.inbox.FindByUser(ctx, repository.NoTX, userID)
}

// MarkRead flips the read flag on one notification.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.inbox.MarkRead(ctx, repository.NoTX, id)
}

// Delete removes one notification by explicit user action.
func (uc *NotificationUseCase) Delete(ctx context.Context, id string) error {
	return uc.inbox.Delete(ctx, repository.NoTX, id)
}
