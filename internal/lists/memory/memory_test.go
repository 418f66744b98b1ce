package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shoplist/internal/core"
)

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return base }

func seqIDs() core.IDSource {
	var mu sync.Mutex
	n := 0
	return core.IDSourceFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func newList(t *testing.T, id, name string, created time.Time) core.List {
	t.Helper()
	l, err := core.NewList(id, name, core.CategoryGrocery, decimal.NewFromInt(50), "", created)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestStoreCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	l := newList(t, "a", "Weekly", base)
	if err := s.Create(ctx, l); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, l); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || got.Name != "Weekly" {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStoreAllNewestFirstAndSearch(t *testing.T) {
	ctx := context.Background()
	s := New(
		newList(t, "a", "Weekly Groceries", base),
		newList(t, "b", "Party Supplies", base.Add(time.Hour)),
		newList(t, "c", "Monthly groceries", base.Add(2*time.Hour)),
	)

	all, _ := s.All(ctx, "")
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	found, _ := s.All(ctx, "  GROCER ")
	if len(found) != 2 || found[0].ID != "c" || found[1].ID != "a" {
		t.Fatalf("unexpected search result: %v", ids(found))
	}

	none, _ := s.All(ctx, "tools")
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", none)
	}
}

func TestStoreUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := New(newList(t, "a", "Weekly", base))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "a", func(l core.List) (core.List, error) {
		l.Name = "changed"
		return l, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got, _ := s.Get(ctx, "a"); got.Name != "Weekly" {
		t.Fatalf("failed update was stored: %q", got.Name)
	}

	if _, err := s.Update(ctx, "missing", func(l core.List) (core.List, error) { return l, nil }); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := New(newList(t, "a", "Weekly", base))
	idSrc := seqIDs()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "a", func(l core.List) (core.List, error) {
				items, _, err := l.Items.AddItem(idSrc, "item")
				return l.WithItems(items), err
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.Get(ctx, "a")
	if got.Items.Len() != 50 {
		t.Fatalf("expected 50 items, got %d", got.Items.Len())
	}
}

const seedYAML = `
lists:
  - id: weekly
    name: Weekly Groceries
    category: grocery
    budget: "150,00"
    created_at: "2025-03-01T10:00:00Z"
    items:
      - name: Milk
        quantity: 2
        price: "3.99"
        category: Dairy
      - id: bread
        name: Bread
        price: 2.49
        completed: true
  - name: Birthday Party
    category: party
    budget: 200
    note: Saturday
`

func TestParseSeed(t *testing.T) {
	s, err := Parse([]byte(seedYAML), seqIDs(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 lists, got %d", s.Len())
	}

	weekly, err := s.Get(context.Background(), "weekly")
	if err != nil {
		t.Fatal(err)
	}
	if !weekly.TotalBudget.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected budget %s", weekly.TotalBudget)
	}
	items := weekly.Items.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].Category != "Dairy" || items[0].Completed {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].ID != "bread" || items[1].Quantity != 1 || !items[1].Completed || items[1].Category != core.DefaultItemCategory {
		t.Fatalf("unexpected second item %+v", items[1])
	}
	if got := core.TotalCost(weekly); !got.Equal(decimal.RequireFromString("10.47")) {
		t.Fatalf("unexpected total %s", got)
	}

	all, _ := s.All(context.Background(), "party")
	if len(all) != 1 || !all[0].CreatedAt.Equal(base) || all[0].Category != core.CategoryParty || all[0].Note != "Saturday" {
		t.Fatalf("unexpected party list %+v", all)
	}
}

func TestParseSeedRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"blank list name": "lists:\n  - name: \"  \"\n",
		"negative budget": "lists:\n  - name: x\n    budget: \"-5\"\n",
		"blank item name": "lists:\n  - name: x\n    items:\n      - name: \"\"\n",
		"bad quantity":    "lists:\n  - name: x\n    items:\n      - name: a\n        quantity: -1\n",
		"bad price":       "lists:\n  - name: x\n    items:\n      - name: a\n        price: abc\n",
		"bad date":        "lists:\n  - name: x\n    created_at: yesterday\n",
		"duplicate list":  "lists:\n  - id: a\n    name: x\n  - id: a\n    name: y\n",
		"not yaml":        "lists: [",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw), seqIDs(), fixedNow); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFromFile(filepath.Join(dir, "missing.yaml"), seqIDs(), fixedNow); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFromFile(path, seqIDs(), fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 lists, got %d", s.Len())
	}
}

func ids(ls []core.List) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}
