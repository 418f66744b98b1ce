package core

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(id, name string, q int, price string, done bool) Item {
	return Item{ID: id, Name: name, Quantity: q, UnitPrice: dec(price), Completed: done, Category: DefaultItemCategory}
}

func listOf(budget string, items ...Item) List {
	return List{ID: "l1", Name: "Weekly", Category: CategoryGrocery, TotalBudget: dec(budget), Items: NewLedger(items...)}
}

func TestProgressOf(t *testing.T) {
	cases := []struct {
		name    string
		items   []Item
		want    Progress
		percent float64
	}{
		{"empty", nil, Progress{0, 0}, 0},
		{"none done", []Item{item("a", "A", 1, "1", false)}, Progress{0, 1}, 0},
		{"half", []Item{item("a", "A", 1, "1", true), item("b", "B", 1, "1", false)}, Progress{1, 2}, 50},
		{"all", []Item{item("a", "A", 1, "1", true), item("b", "B", 1, "1", true)}, Progress{2, 2}, 100},
	}
	for _, tc := range cases {
		got := ProgressOf(listOf("0", tc.items...))
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
		if got.Completed > got.Total {
			t.Errorf("%s: completed exceeds total", tc.name)
		}
		if p := got.Percent(); p != tc.percent {
			t.Errorf("%s: percent %v, want %v", tc.name, p, tc.percent)
		}
	}
}

func TestOverBudgetScenario(t *testing.T) {
	l := listOf("10",
		item("1", "Milk", 2, "3.99", false),
		item("2", "Bread", 1, "2.49", false),
	)
	if got := TotalCost(l); !got.Equal(dec("10.47")) {
		t.Fatalf("total cost %s, want 10.47", got)
	}
	if got := BudgetPercentage(l); !got.Equal(dec("100")) {
		t.Fatalf("budget percentage %s, want 100", got)
	}
	if got := OverBudget(l); !got.Equal(dec("0.47")) {
		t.Fatalf("over budget %s, want 0.47", got)
	}
	if got := Remaining(l); !got.IsZero() {
		t.Fatalf("remaining %s, want 0", got)
	}
	if got := StatusOf(l); got != StatusOver {
		t.Fatalf("status %s, want over", got)
	}
}

func TestEmptyListWithoutBudget(t *testing.T) {
	l := listOf("0")
	if got := BudgetPercentage(l); !got.IsZero() {
		t.Fatalf("percentage %s, want 0", got)
	}
	if got := StatusOf(l); got != StatusHealthy {
		t.Fatalf("status %s, want healthy", got)
	}
	if got := ProgressOf(l); got != (Progress{}) {
		t.Fatalf("progress %+v, want zero", got)
	}
}

func TestSpendWithoutBudget(t *testing.T) {
	l := listOf("0", item("1", "TV", 1, "499", false))
	if !BudgetPercentage(l).IsZero() || !OverBudget(l).IsZero() {
		t.Fatalf("no budget must report 0%% and nothing over")
	}
	if StatusOf(l) != StatusHealthy {
		t.Fatalf("no budget must classify healthy")
	}
}

func TestTotalCostIgnoresOrder(t *testing.T) {
	items := []Item{
		item("1", "Milk", 2, "3.99", false),
		item("2", "Bread", 1, "2.49", true),
		item("3", "Apples", 5, "0.99", false),
		item("4", "Coffee", 1, "9.99", true),
	}
	want := TotalCost(listOf("0", items...))
	rev := slices.Clone(items)
	slices.Reverse(rev)
	rot := append(slices.Clone(items[2:]), items[:2]...)
	for _, perm := range [][]Item{rev, rot} {
		if got := TotalCost(listOf("0", perm...)); !got.Equal(want) {
			t.Fatalf("order changed total: %s vs %s", got, want)
		}
	}
	if !want.Equal(dec("25.41")) {
		t.Fatalf("total %s, want 25.41", want)
	}
}

func TestTotalCostNotRounded(t *testing.T) {
	l := listOf("0", item("1", "Bulk", 3, "0.333", false))
	if got := TotalCost(l); !got.Equal(dec("0.999")) {
		t.Fatalf("total %s, want 0.999", got)
	}
	if got := Summarize(l).TotalCost; !got.Equal(dec("1")) {
		t.Fatalf("summary total %s, want 1.00", got)
	}
}

func TestFilterByCompletion(t *testing.T) {
	l := listOf("0",
		item("1", "A", 1, "1", false),
		item("2", "B", 1, "1", true),
		item("3", "C", 1, "1", false),
	)
	ids := func(show bool) []string {
		var out []string
		for it := range FilterByCompletion(l, show) {
			out = append(out, it.ID)
		}
		return out
	}
	if got := ids(true); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Fatalf("show completed: %v", got)
	}
	if got := ids(false); !slices.Equal(got, []string{"1", "3"}) {
		t.Fatalf("hide completed: %v", got)
	}

	seq := FilterByCompletion(l, false)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("sequence is not restartable: %d then %d", len(first), len(second))
	}

	for range FilterByCompletion(l, true) {
		break
	}
}

func TestSummarize(t *testing.T) {
	l := listOf("20",
		item("1", "Milk", 2, "3.99", true),
		item("2", "Bread", 1, "2.49", false),
	)
	l.CreatedAt = time.Now()
	s := Summarize(l)
	if s.Progress != (Progress{Completed: 1, Total: 2}) || s.CompletionPercent != 50 {
		t.Fatalf("unexpected progress %+v %v", s.Progress, s.CompletionPercent)
	}
	if !s.TotalCost.Equal(dec("10.47")) || !s.Remaining.Equal(dec("9.53")) || !s.OverBudget.IsZero() {
		t.Fatalf("unexpected amounts %+v", s)
	}
	if s.BudgetPercent != 52.35 || s.Status != StatusWarning {
		t.Fatalf("unexpected budget %v %s", s.BudgetPercent, s.Status)
	}
}
