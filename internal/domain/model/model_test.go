package model_test

import (
	"errors"
	"testing"
	"time"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
)

func TestPlan_EndDate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		plan model.Plan
		want time.Time
	}{
		{model.PlanMonthly, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{model.PlanQuarterly, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{model.PlanSemiAnnually, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{model.PlanAnnual, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(string(tc.plan), func(t *testing.T) {
			if got := tc.plan.EndDate(start); !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	t.Run("calendar months, not 30-day blocks", func(t *testing.T) {
		jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		// Go normalizes Feb 31 to Mar 2 in a leap year.
		want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		if got := model.PlanMonthly.EndDate(jan31); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestParsePlan(t *testing.T) {
	for _, s := range []string{"Monthly", "Quarterly", "SemiAnnually", "Annual"} {
		if _, err := model.ParsePlan(s); err != nil {
			t.Errorf("ParsePlan(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "monthly", "Weekly", "annual"} {
		if _, err := model.ParsePlan(s); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("ParsePlan(%q): expected ErrInvalidArgument, got %v", s, err)
		}
	}
}

func TestSubscription_IsCurrent(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status model.SubscriptionStatus
		end    time.Time
		want   bool
	}{
		{"active and in range", model.SubscriptionStatusActive, now.AddDate(0, 0, 10), true},
		{"active, ends this instant", model.SubscriptionStatusActive, now, true},
		{"active flag but end date passed", model.SubscriptionStatusActive, now.AddDate(0, 0, -1), false},
		{"expired flag with future end date", model.SubscriptionStatusExpired, now.AddDate(0, 0, 10), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &model.Subscription{Status: tc.status, EndDate: tc.end}
			if got := sub.IsCurrent(now); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewSubscription(t *testing.T) {
	t.Run("platform scope when item is empty", func(t *testing.T) {
		sub, err := model.NewSubscription("id-1", "user-1", "", model.PlanMonthly, time.Time{})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !sub.IsPlatformWide() || sub.ItemType != "platform" {
			t.Errorf("expected a platform-wide grant, got %+v", sub)
		}
		if sub.Status != model.SubscriptionStatusActive {
			t.Errorf("expected status Active, got %s", sub.Status)
		}
	})

	t.Run("override replaces the plan end date", func(t *testing.T) {
		override := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		sub, err := model.NewSubscription("id-1", "user-1", "unit-7", model.PlanAnnual, override)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !sub.EndDate.Equal(override) {
			t.Errorf("expected %v, got %v", override, sub.EndDate)
		}
		if sub.ItemType != "unit" {
			t.Errorf("expected item type 'unit', got %q", sub.ItemType)
		}
	})

	t.Run("missing ids are rejected", func(t *testing.T) {
		if _, err := model.NewSubscription("", "user-1", "", model.PlanMonthly, time.Time{}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := model.NewSubscription("id-1", "", "", model.PlanMonthly, time.Time{}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPrepaidCode_Lifecycle(t *testing.T) {
	t.Run("counts uses up to the ceiling", func(t *testing.T) {
		// --- Arrange ---
		code, err := model.NewPrepaidCode("AAAA-BBBB-CCCC", "", 30, 2)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		// --- Act / Assert ---
		if code.Exhausted() {
			t.Fatal("a fresh code must not be exhausted")
		}
		if err := code.MarkRedeemed("user-1"); err != nil {
			t.Fatalf("first redeem: %v", err)
		}
		if err := code.MarkRedeemed("user-2"); err != nil {
			t.Fatalf("second redeem: %v", err)
		}
		if !code.Exhausted() {
			t.Error("expected the code to be exhausted after MaxUses redemptions")
		}
		if err := code.MarkRedeemed("user-3"); !errors.Is(err, domain.ErrCodeExhausted) {
			t.Errorf("expected ErrCodeExhausted, got %v", err)
		}
		if code.TimesUsed != 2 {
			t.Errorf("expected TimesUsed to stay at 2, got %d", code.TimesUsed)
		}
		if len(code.UsedByUserIDs) != 2 || code.UsedByUserIDs[0] != "user-1" {
			t.Errorf("unexpected redeemer list %v", code.UsedByUserIDs)
		}
	})

	t.Run("re-redemption by the same user still consumes a use", func(t *testing.T) {
		code, _ := model.NewPrepaidCode("AAAA-BBBB-CCCC", "", 30, 2)
		_ = code.MarkRedeemed("user-1")
		_ = code.MarkRedeemed("user-1")
		if !code.Exhausted() {
			t.Error("expected two redemptions by one user to exhaust a 2-use code")
		}
	})

	t.Run("invalid configs are rejected", func(t *testing.T) {
		for _, tc := range []struct {
			code    string
			days, n int
		}{
			{"", 30, 1},
			{"AAAA-BBBB-CCCC", 0, 1},
			{"AAAA-BBBB-CCCC", 30, 0},
		} {
			if _, err := model.NewPrepaidCode(tc.code, "", tc.days, tc.n); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("NewPrepaidCode(%q,%d,%d): expected ErrInvalidArgument, got %v", tc.code, tc.days, tc.n, err)
			}
		}
	})
}

func TestNewSubscriptionRequest(t *testing.T) {
	req, err := model.NewSubscriptionRequest("id-1", "user-1", "Sami", model.PlanMonthly, "0912000000")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if req.Status != model.RequestStatusPending {
		t.Errorf("expected status Pending, got %s", req.Status)
	}
	if req.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if _, err := model.NewSubscriptionRequest("", "user-1", "", model.PlanMonthly, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
