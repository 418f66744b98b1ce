package core

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// CategoryAmount is the budget and spend aggregated over every list of one category.
type CategoryAmount struct {
	Category   ListCategory    `json:"category"`
	Label      string          `json:"label"`
	Lists      int             `json:"lists"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
	Status     BudgetStatus    `json:"status"`
}

// ListDigest is the compact form of a list used in overviews.
type ListDigest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category ListCategory    `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
	Budget   decimal.Decimal `json:"budget"`
	Status   BudgetStatus    `json:"status"`
	Progress Progress        `json:"progress"`
}

// Overview summarizes budgets and spend across many lists.
type Overview struct {
	Lists          int              `json:"lists"`
	TotalBudget    decimal.Decimal  `json:"total_budget"`
	TotalSpent     decimal.Decimal  `json:"total_spent"`
	Remaining      decimal.Decimal  `json:"remaining"`
	OverBudget     decimal.Decimal  `json:"over_budget"`
	Percentage     float64          `json:"percentage"`
	Status         BudgetStatus     `json:"status"`
	AveragePerList decimal.Decimal  `json:"average_per_list"`
	TopCategory    *CategoryAmount  `json:"top_category,omitempty"`
	ByCategory     []CategoryAmount `json:"by_category"`
	Recent         []ListDigest     `json:"recent"`
}

// Digest condenses one list.
func Digest(l List) ListDigest {
	return ListDigest{
		ID:       l.ID,
		Name:     l.Name,
		Category: l.Category,
		Spent:    Round2(TotalCost(l)),
		Budget:   Round2(l.TotalBudget),
		Status:   StatusOf(l),
		Progress: ProgressOf(l),
	}
}

// BuildOverview aggregates lists. Category rows follow ListCategories order
// and only include categories that have at least one list. Percentages here
// are uncapped so a row can show how far past its budget it went. Recent holds
// up to recent lists, newest first.
func BuildOverview(lists []List, recent int) Overview {
	budget, spent := decimal.Zero, decimal.Zero
	rows := make(map[ListCategory]*CategoryAmount)
	for _, l := range lists {
		cost := TotalCost(l)
		budget = budget.Add(l.TotalBudget)
		spent = spent.Add(cost)

		row, ok := rows[l.Category]
		if !ok {
			row = &CategoryAmount{Category: l.Category, Label: l.Category.Label(), Budget: decimal.Zero, Spent: decimal.Zero}
			rows[l.Category] = row
		}
		row.Lists++
		row.Budget = row.Budget.Add(l.TotalBudget)
		row.Spent = row.Spent.Add(cost)
	}

	ov := Overview{
		Lists:          len(lists),
		TotalBudget:    Round2(budget),
		TotalSpent:     Round2(spent),
		Remaining:      Round2(decimal.Max(budget.Sub(spent), decimal.Zero)),
		OverBudget:     decimal.Zero,
		Percentage:     roundPercent(SpendRatio(spent, budget)),
		Status:         Classify(spent, budget),
		AveragePerList: decimal.Zero,
		ByCategory:     []CategoryAmount{},
		Recent:         []ListDigest{},
	}
	if budget.IsPositive() {
		ov.OverBudget = Round2(decimal.Max(spent.Sub(budget), decimal.Zero))
	}
	if len(lists) > 0 {
		ov.AveragePerList = Round2(spent.Div(decimal.NewFromInt(int64(len(lists)))))
	}

	for _, c := range ListCategories() {
		row, ok := rows[c]
		if !ok {
			continue
		}
		ratio := SpendRatio(row.Spent, row.Budget)
		row.Percentage = roundPercent(ratio)
		row.Status = ClassifyRatio(ratio)
		row.Budget = Round2(row.Budget)
		row.Spent = Round2(row.Spent)
		ov.ByCategory = append(ov.ByCategory, *row)
	}

	// Ties keep the first category in display order.
	for i := range ov.ByCategory {
		if ov.TopCategory == nil || ov.ByCategory[i].Spent.GreaterThan(ov.TopCategory.Spent) {
			top := ov.ByCategory[i]
			ov.TopCategory = &top
		}
	}
	if ov.TopCategory != nil && ov.TopCategory.Spent.IsZero() {
		ov.TopCategory = nil
	}

	sorted := slices.Clone(lists)
	slices.SortStableFunc(sorted, func(a, b List) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if recent >= 0 && len(sorted) > recent {
		sorted = sorted[:recent]
	}
	for _, l := range sorted {
		ov.Recent = append(ov.Recent, Digest(l))
	}
	return ov
}
