package model

// PricingMode selects which column of the price table applies.
type PricingMode string

const (
	PricingModeComprehensive PricingMode = "comprehensive"
	PricingModeSingleSubject PricingMode = "singleSubject"
)

// PriceTable is the platform's nested pricing configuration keyed by mode and
// plan. It is an external input read-only from the ledger's perspective;
// combinations absent from the table are simply not offered.
type PriceTable map[PricingMode]map[Plan]int64

// PriceFor returns the configured price, or nil when the plan/mode combination
// is not offered.
func (t PriceTable) PriceFor(plan Plan, mode PricingMode) *int64 {
	plans, ok := t[mode]
	if !ok {
		return nil
	}
	price, ok := plans[plan]
	if !ok {
		return nil
	}
	return &price
}
