package core

import "github.com/shopspring/decimal"

// BudgetStatus is the severity tier of a spend ratio.
type BudgetStatus string

const (
	StatusHealthy BudgetStatus = "healthy"
	StatusWarning BudgetStatus = "warning"
	StatusOver    BudgetStatus = "over"
)

// Tier boundaries, as a percentage of the budget consumed. One table is
// shared by list details, the category overview and alerts.
const (
	WarningThreshold = 50
	OverThreshold    = 80
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(WarningThreshold)
	overThreshold    = decimal.NewFromInt(OverThreshold)
)

// SpendRatio returns spent/total × 100, uncapped. A non-positive total
// yields 0.
func SpendRatio(spent, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(hundred).Div(total)
}

// Classify maps spent against total onto a tier.
func Classify(spent, total decimal.Decimal) BudgetStatus {
	return ClassifyRatio(SpendRatio(spent, total))
}

// ClassifyRatio maps a percentage onto a tier.
func ClassifyRatio(ratio decimal.Decimal) BudgetStatus {
	switch {
	case ratio.LessThan(warningThreshold):
		return StatusHealthy
	case ratio.LessThan(overThreshold):
		return StatusWarning
	default:
		return StatusOver
	}
}

// Severity orders tiers so callers can tell an escalation from a recovery.
func (s BudgetStatus) Severity() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusOver:
		return 2
	default:
		return 0
	}
}
