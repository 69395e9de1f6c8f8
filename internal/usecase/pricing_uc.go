package usecase

import (
	"edu-entitlement-platform/internal/domain/model"
)

// PricingUseCase answers plan/mode price lookups against the platform's
// configured table. The table is an external configuration input; the ledger
// never writes it.
type PricingUseCase struct {
	table model.PriceTable
}

func NewPricingUseCase(table model.PriceTable) *PricingUseCase {
	return &PricingUseCase{table: table}
}

// PriceFor returns the price for the combination, or nil when it is not
// offered (e.g. Quarterly may not exist for singleSubject).
func (uc *PricingUseCase) PriceFor(plan model.Plan, mode model.PricingMode) *int64 {
	return uc.table.PriceFor(plan, mode)
}

// Table exposes the full table for the admin settings page.
func (uc *PricingUseCase) Table() model.PriceTable {
	return uc.table
}
