package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/adapter"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

// LedgerUseCase owns the subscription, subscription-request, and prepaid-code
// records and enforces the lifecycle rules: request -> approval ->
// time-bounded entitlement -> expiry, plus one-time-use code redemption.
type LedgerUseCase struct {
	subs     repository.SubscriptionRepository
	requests repository.SubscriptionRequestRepository
	codes    repository.PrepaidCodeRepository
	catalog  repository.CatalogRepository
	tm       repository.TransactionManager
	activity adapter.ActivitySink
	log      *zerolog.Logger
}

func NewLedgerUseCase(
	subs repository.SubscriptionRepository,
	requests repository.SubscriptionRequestRepository,
	codes repository.PrepaidCodeRepository,
	catalog repository.CatalogRepository,
	tm repository.TransactionManager,
	activity adapter.ActivitySink,
	logger *zerolog.Logger,
) *LedgerUseCase {
	ledgerLog := logger.With().Str("component", "LedgerUseCase").Logger()
	return &LedgerUseCase{
		subs:     subs,
		requests: requests,
		codes:    codes,
		catalog:  catalog,
		tm:       tm,
		activity: activity,
		log:      &ledgerLog,
	}
}

// SubmitRequestInput carries a student's claim to have paid for a plan.
// ItemID identifies the scope: a unit id, or empty for the whole platform.
type SubmitRequestInput struct {
	UserID            string
	UserName          string
	Plan              model.Plan
	PaymentFromNumber string
	SubjectName       string
	UnitID            string
	ItemID            string
}

// SubmitRequest appends a new pending request. No validation against existing
// active subscriptions is performed; a user may submit duplicate pending
// requests for the same scope.
func (uc *LedgerUseCase) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*model.SubscriptionRequest, error) {
	if _, err := model.ParsePlan(string(in.Plan)); err != nil {
		return nil, err
	}
	req, err := model.NewSubscriptionRequest(uuid.NewString(), in.UserID, in.UserName, in.Plan, in.PaymentFromNumber)
	if err != nil {
		return nil, err
	}
	req.SubjectName = in.SubjectName
	req.UnitID = in.UnitID
	req.ItemID = in.ItemID

	if err := uc.requests.Save(ctx, repository.NoTX, req); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, fmt.Sprintf("Subscription request submitted by %s for plan %s", in.UserName, in.Plan))
	return req, nil
}

// ApproveRequest upserts a subscription for the request's (user, scope) and
// marks the request approved. Both writes run in one storage transaction so a
// failure leaves the request untouched rather than half-applied.
// overrideEndDate, when non-zero, replaces the plan-derived end date.
func (uc *LedgerUseCase) ApproveRequest(ctx context.Context, requestID string, overrideEndDate time.Time) (*model.Subscription, error) {
	var granted *model.Subscription
	err := uc.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		req, err := uc.requests.FindByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status != model.RequestStatusPending {
			return domain.ErrRequestNotPending
		}

		sub, err := uc.upsert(ctx, tx, req.UserID, req.ItemID, req.SubjectName, "", req.Plan, overrideEndDate, time.Time{})
		if err != nil {
			return err
		}
		granted = sub

		req.Status = model.RequestStatusApproved
		return uc.requests.Save(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, fmt.Sprintf("Subscription for %s updated to Active", granted.UserID))
	return granted, nil
}

// RejectRequest sets the request's status to Rejected with no subscription
// side effect. Re-rejecting a rejected request is a harmless overwrite;
// rejecting an approved one is refused since transitions are one-way.
func (uc *LedgerUseCase) RejectRequest(ctx context.Context, requestID string) error {
	req, err := uc.requests.FindByID(ctx, repository.NoTX, requestID)
	if err != nil {
		return err
	}
	if req.Status == model.RequestStatusApproved {
		return domain.ErrRequestNotPending
	}
	req.Status = model.RequestStatusRejected
	if err := uc.requests.Save(ctx, repository.NoTX, req); err != nil {
		return err
	}
	uc.activity.Record(ctx, fmt.Sprintf("Subscription request from %s rejected", req.UserName))
	return nil
}

// IsEntitled reports whether the user may currently access the given scope.
// The check is two-tier: a grant for the exact scope first, then any
// platform-wide grant. Entitlement is always the derived predicate
// (status Active AND end date not passed); the stored flag alone is never
// trusted. Pure: no side effects.
func (uc *LedgerUseCase) IsEntitled(ctx context.Context, userID, itemID string) (bool, error) {
	now := time.Now()

	sub, err := uc.subs.FindByUserAndItem(ctx, repository.NoTX, userID, itemID)
	switch {
	case err == nil:
		if sub.IsCurrent(now) {
			return true, nil
		}
	case !errors.Is(err, domain.ErrNotFound):
		return false, err
	}

	if itemID == "" {
		return false, nil
	}
	platform, err := uc.subs.FindByUserAndItem(ctx, repository.NoTX, userID, "")
	switch {
	case err == nil:
		return platform.IsCurrent(now), nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ReadLesson returns lesson content for an entitled user. Entitlement is
// checked against the lesson's unit, so both unit-scoped and platform-wide
// grants open it.
func (uc *LedgerUseCase) ReadLesson(ctx context.Context, userID, lessonID string) (*model.Lesson, error) {
	if userID == "" || lessonID == "" {
		return nil, domain.ErrInvalidArgument
	}
	lesson, err := uc.catalog.FindLesson(ctx, repository.NoTX, lessonID)
	if err != nil {
		return nil, err
	}
	ok, err := uc.IsEntitled(ctx, userID, lesson.UnitID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotEntitled
	}
	return lesson, nil
}

// ListRequests returns requests filtered by status, newest first. An empty
// status lists everything.
func (uc *LedgerUseCase) ListRequests(ctx context.Context, status model.RequestStatus) ([]*model.SubscriptionRequest, error) {
	if status != "" {
		if status != model.RequestStatusPending && status != model.RequestStatusApproved && status != model.RequestStatusRejected {
			return nil, domain.ErrInvalidArgument
		}
	}
	return uc.requests.List(ctx, repository.NoTX, status)
}

// SubscriptionsFor returns all of the user's grants regardless of status.
func (uc *LedgerUseCase) SubscriptionsFor(ctx context.Context, userID string) ([]*model.Subscription, error) {
	return uc.subs.FindByUser(ctx, repository.NoTX, userID)
}

// ListCodes returns every minted prepaid code with its usage counters.
func (uc *LedgerUseCase) ListCodes(ctx context.Context) ([]*model.PrepaidCode, error) {
	return uc.codes.List(ctx, repository.NoTX)
}

// DeleteCode removes a code so it can no longer be redeemed.
func (uc *LedgerUseCase) DeleteCode(ctx context.Context, code string) error {
	return uc.codes.Delete(ctx, repository.NoTX, code)
}

// GenerateCodesConfig configures one batch of prepaid codes.
type GenerateCodesConfig struct {
	Count        int
	DurationDays int
	MaxUses      int
	TeacherID    string // optional; empty mints platform-wide codes
}

// GenerateCodes mints cfg.Count codes, each collision-checked against the full
// existing code set (and the batch itself) before insertion.
func (uc *LedgerUseCase) GenerateCodes(ctx context.Context, cfg GenerateCodesConfig) ([]*model.PrepaidCode, error) {
	if cfg.Count < 1 || cfg.DurationDays < 1 || cfg.MaxUses < 1 {
		return nil, domain.ErrInvalidArgument
	}

	out := make([]*model.PrepaidCode, 0, cfg.Count)
	inBatch := make(map[string]bool, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		token, err := uc.mintToken(ctx, inBatch)
		if err != nil {
			return nil, err
		}
		code, err := model.NewPrepaidCode(token, cfg.TeacherID, cfg.DurationDays, cfg.MaxUses)
		if err != nil {
			return nil, err
		}
		if err := uc.codes.Save(ctx, repository.NoTX, code); err != nil {
			return nil, err
		}
		inBatch[token] = true
		out = append(out, code)
	}
	uc.activity.Record(ctx, fmt.Sprintf("Generated %d prepaid codes (%d days, %d uses each)", cfg.Count, cfg.DurationDays, cfg.MaxUses))
	return out, nil
}

// mintToken retries generation until the token collides with neither the
// stored code set nor the current batch.
func (uc *LedgerUseCase) mintToken(ctx context.Context, inBatch map[string]bool) (string, error) {
	const maxAttempts = 100
	for i := 0; i < maxAttempts; i++ {
		token, err := generatePrepaidCode()
		if err != nil {
			return "", err
		}
		if inBatch[token] {
			continue
		}
		exists, err := uc.codes.Exists(ctx, repository.NoTX, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", domain.ErrOperationFailed
}

// RedeemResult reports what one successful redemption granted.
type RedeemResult struct {
	Granted []*model.Subscription
	Message string
}

// RedeemCode redeems a prepaid code for userID. A teacher-scoped code grants
// one upserted subscription per unit taught by that teacher; a platform-wide
// code grants a single platform subscription. The whole redemption runs in a
// transaction serialized per code, so two concurrent redemptions of a code
// with MaxUses=1 cannot both succeed.
//
// Rejections (unknown code, exhausted code, teacher with zero units) leave all
// state untouched; in particular a zero-unit rejection does not consume a use.
func (uc *LedgerUseCase) RedeemCode(ctx context.Context, codeStr, userID string) (*RedeemResult, error) {
	if codeStr == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	var result RedeemResult
	err := uc.tm.WithLockedTx(ctx, "code:"+codeStr, func(ctx context.Context, tx repository.Tx) error {
		code, err := uc.codes.FindByCode(ctx, tx, codeStr)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}
		if code.Exhausted() {
			return domain.ErrCodeExhausted
		}

		start := time.Now()
		end := start.AddDate(0, 0, code.DurationDays)

		if code.TeacherID != "" {
			units, err := uc.catalog.UnitsByTeacher(ctx, tx, code.TeacherID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if len(units) == 0 {
				return domain.ErrNothingToGrant
			}
			for _, u := range units {
				sub, err := uc.upsert(ctx, tx, userID, u.ID, u.SubjectName, code.TeacherID, "", time.Time{}, end)
				if err != nil {
					return err
				}
				result.Granted = append(result.Granted, sub)
			}
		} else {
			sub, err := uc.upsert(ctx, tx, userID, "", "", "", "", time.Time{}, end)
			if err != nil {
				return err
			}
			result.Granted = append(result.Granted, sub)
		}

		if err := code.MarkRedeemed(userID); err != nil {
			return err
		}
		return uc.codes.Save(ctx, tx, code)
	})
	if err != nil {
		return nil, err
	}

	result.Message = fmt.Sprintf("Code redeemed: %d subscription(s) activated", len(result.Granted))
	uc.activity.Record(ctx, fmt.Sprintf("Prepaid code redeemed by %s (%d grants)", userID, len(result.Granted)))
	return &result, nil
}

// upsert inserts or replaces the single subscription for (userID, itemID).
// A pre-existing grant for the exact scope keeps its id; otherwise a new one
// is minted. End date precedence: codeEnd (day-granular code grants), then
// override, then plan calendar duration from now.
func (uc *LedgerUseCase) upsert(ctx context.Context, tx repository.Tx, userID, itemID, itemName, teacherID string, plan model.Plan, override, codeEnd time.Time) (*model.Subscription, error) {
	id := uuid.NewString()
	existing, err := uc.subs.FindByUserAndItem(ctx, tx, userID, itemID)
	switch {
	case err == nil:
		id = existing.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	end := override
	if !codeEnd.IsZero() {
		end = codeEnd
	}
	sub, err := model.NewSubscription(id, userID, itemID, plan, end)
	if err != nil {
		return nil, err
	}
	sub.TeacherID = teacherID
	sub.ItemName = itemName
	if err := uc.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
