package core

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Progress counts completed items against all items of a list.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns Completed/Total × 100, or 0 for an empty list.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) * 100 / float64(p.Total)
}

// Summary bundles the derived figures of one list, rounded for display.
type Summary struct {
	Progress          Progress        `json:"progress"`
	CompletionPercent float64         `json:"completion_percent"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalBudget       decimal.Decimal `json:"total_budget"`
	BudgetPercent     float64         `json:"budget_percent"`
	OverBudget        decimal.Decimal `json:"over_budget"`
	Remaining         decimal.Decimal `json:"remaining"`
	Status            BudgetStatus    `json:"status"`
}

// ProgressOf counts the list's items.
func ProgressOf(l List) Progress {
	p := Progress{Total: l.Items.Len()}
	for it := range l.Items.All() {
		if it.Completed {
			p.Completed++
		}
	}
	return p
}

// TotalCost sums UnitPrice × Quantity over all items. The result is not
// rounded; use Round2 or FormatAmount when presenting it.
func TotalCost(l List) decimal.Decimal {
	total := decimal.Zero
	for it := range l.Items.All() {
		total = total.Add(it.Total())
	}
	return total
}

// BudgetPercentage returns the share of the budget consumed, capped at 100.
// Lists without a budget report 0.
func BudgetPercentage(l List) decimal.Decimal {
	return decimal.Min(SpendRatio(TotalCost(l), l.TotalBudget), hundred)
}

// OverBudget returns how far the cost exceeds the budget, never negative.
// Lists without a budget report 0.
func OverBudget(l List) decimal.Decimal {
	if !l.TotalBudget.IsPositive() {
		return decimal.Zero
	}
	return decimal.Max(TotalCost(l).Sub(l.TotalBudget), decimal.Zero)
}

// Remaining returns the unspent part of the budget, never negative.
func Remaining(l List) decimal.Decimal {
	return decimal.Max(l.TotalBudget.Sub(TotalCost(l)), decimal.Zero)
}

// StatusOf classifies the list's cost against its budget.
func StatusOf(l List) BudgetStatus {
	return Classify(TotalCost(l), l.TotalBudget)
}

// FilterByCompletion yields every item when showCompleted is true, otherwise
// only the open ones. The sequence is lazy and can be ranged over repeatedly.
func FilterByCompletion(l List, showCompleted bool) iter.Seq[Item] {
	items := l.Items
	return func(yield func(Item) bool) {
		for it := range items.All() {
			if it.Completed && !showCompleted {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// Summarize derives every display figure for l.
func Summarize(l List) Summary {
	p := ProgressOf(l)
	cost := TotalCost(l)
	return Summary{
		Progress:          p,
		CompletionPercent: roundPercent(decimal.NewFromFloat(p.Percent())),
		TotalCost:         Round2(cost),
		TotalBudget:       Round2(l.TotalBudget),
		BudgetPercent:     roundPercent(BudgetPercentage(l)),
		OverBudget:        Round2(OverBudget(l)),
		Remaining:         Round2(Remaining(l)),
		Status:            Classify(cost, l.TotalBudget),
	}
}

func roundPercent(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
