package core

import (
	"testing"
	"time"
)

func TestBuildOverview(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	groceries := listOf("100", item("1", "Milk", 2, "3.99", false), item("2", "Bread", 1, "2.49", false))
	groceries.ID, groceries.CreatedAt = "g", base

	party := listOf("50", item("3", "Cake", 1, "45", false))
	party.ID, party.Category, party.CreatedAt = "p", CategoryParty, base.Add(2*time.Hour)

	tools := listOf("0", item("4", "Drill", 1, "20", false))
	tools.ID, tools.Category, tools.CreatedAt = "t", CategoryHousehold, base.Add(time.Hour)

	ov := BuildOverview([]List{groceries, party, tools}, 2)

	if ov.Lists != 3 {
		t.Fatalf("lists %d, want 3", ov.Lists)
	}
	if !ov.TotalBudget.Equal(dec("150")) || !ov.TotalSpent.Equal(dec("75.47")) {
		t.Fatalf("totals %s / %s", ov.TotalBudget, ov.TotalSpent)
	}
	if !ov.Remaining.Equal(dec("74.53")) || !ov.OverBudget.IsZero() {
		t.Fatalf("remaining %s over %s", ov.Remaining, ov.OverBudget)
	}
	if ov.Status != StatusWarning {
		t.Fatalf("status %s, want warning", ov.Status)
	}
	if !ov.AveragePerList.Equal(dec("25.16")) {
		t.Fatalf("average %s, want 25.16", ov.AveragePerList)
	}

	wantRows := []ListCategory{CategoryGrocery, CategoryHousehold, CategoryParty}
	if len(ov.ByCategory) != len(wantRows) {
		t.Fatalf("rows %+v", ov.ByCategory)
	}
	for i, c := range wantRows {
		if ov.ByCategory[i].Category != c {
			t.Fatalf("row %d is %s, want %s", i, ov.ByCategory[i].Category, c)
		}
	}
	partyRow := ov.ByCategory[2]
	if partyRow.Percentage != 90 || partyRow.Status != StatusOver || partyRow.Label != "Party" {
		t.Fatalf("party row %+v", partyRow)
	}
	if hh := ov.ByCategory[1]; hh.Percentage != 0 || hh.Status != StatusHealthy {
		t.Fatalf("household row without budget %+v", hh)
	}

	if ov.TopCategory == nil || ov.TopCategory.Category != CategoryParty {
		t.Fatalf("top category %+v", ov.TopCategory)
	}

	if len(ov.Recent) != 2 || ov.Recent[0].ID != "p" || ov.Recent[1].ID != "t" {
		t.Fatalf("recent %+v", ov.Recent)
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	ov := BuildOverview(nil, 5)
	if ov.Lists != 0 || !ov.TotalSpent.IsZero() || ov.Status != StatusHealthy {
		t.Fatalf("unexpected empty overview %+v", ov)
	}
	if ov.TopCategory != nil || ov.ByCategory == nil || ov.Recent == nil {
		t.Fatalf("empty overview must have empty, non-nil collections and no top category")
	}
}

func TestBuildOverviewCategoryPercentageUncapped(t *testing.T) {
	l := listOf("10", item("1", "Milk", 3, "5", false))
	ov := BuildOverview([]List{l}, 1)
	if got := ov.ByCategory[0].Percentage; got != 150 {
		t.Fatalf("row percentage %v, want 150", got)
	}
	if !ov.OverBudget.Equal(dec("5")) {
		t.Fatalf("over budget %s, want 5", ov.OverBudget)
	}
}
