package spend

import "github.com/shopspring/decimal"

type Status string

const (
	StatusNoSpend     Status = "no-spend"
	StatusOnTarget    Status = "on-target"
	StatusOverBudget  Status = "over-budget"
	StatusUnderBudget Status = "under-budget"
)

// Policy holds the variance policy. OnTargetBand is a fraction of budget, so
// 0.05 treats anything within ±5% of budget as on target.
type Policy struct {
	OnTargetBand decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{OnTargetBand: decimal.NewFromFloat(0.05)}
}

// Status classifies actual spend against budget. No spend wins over every
// other rule. Any spend against a zero or negative budget is over budget.
func (p Policy) Status(actual, budget decimal.Decimal) Status {
	if actual.IsZero() {
		return StatusNoSpend
	}
	if budget.Sign() <= 0 {
		return StatusOverBudget
	}
	if actual.Sub(budget).Abs().Div(budget).LessThanOrEqual(p.OnTargetBand) {
		return StatusOnTarget
	}
	if actual.GreaterThan(budget) {
		return StatusOverBudget
	}
	return StatusUnderBudget
}
