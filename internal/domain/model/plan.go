package model

import (
	"time"

	"edu-entitlement-platform/internal/domain"
)

// Plan is a subscription duration tier.
type Plan string

const (
	PlanMonthly      Plan = "Monthly"
	PlanQuarterly    Plan = "Quarterly"
	PlanSemiAnnually Plan = "SemiAnnually"
	PlanAnnual       Plan = "Annual"
)

// ParsePlan validates a plan name coming from an API boundary.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanMonthly, PlanQuarterly, PlanSemiAnnually, PlanAnnual:
		return Plan(s), nil
	}
	return "", domain.ErrInvalidArgument
}

// EndDate derives the expiry for a subscription starting at start.
// Calendar month/year arithmetic, not fixed day counts.
func (p Plan) EndDate(start time.Time) time.Time {
	switch p {
	case PlanMonthly:
		return start.AddDate(0, 1, 0)
	case PlanQuarterly:
		return start.AddDate(0, 3, 0)
	case PlanSemiAnnually:
		return start.AddDate(0, 6, 0)
	case PlanAnnual:
		return start.AddDate(1, 0, 0)
	}
	return start
}
