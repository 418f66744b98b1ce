package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewListValidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		budget string
		want   error
	}{
		{"Weekly Groceries", "150", nil},
		{"  Party  ", "0", nil},
		{"", "10", ErrEmptyName},
		{"   ", "10", ErrEmptyName},
		{"Tools", "-1", ErrNegativeBudget},
	}
	for i, tc := range cases {
		l, err := NewList("l1", tc.name, CategoryGrocery, decimal.RequireFromString(tc.budget), "", now)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("case %d expected ok, got %v", i, err)
			}
			if l.Items.Len() != 0 {
				t.Fatalf("case %d expected empty ledger", i)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d expected ValidationError, got %T", i, err)
		}
	}
}

func TestNewListTrimsName(t *testing.T) {
	l, err := NewList("l1", "  Party  ", "PARTY", decimal.Zero, " snacks ", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "Party" || l.Note != "snacks" || l.Category != CategoryParty {
		t.Fatalf("unexpected list %+v", l)
	}
}

func TestParseListCategory(t *testing.T) {
	cases := []struct {
		in   string
		want ListCategory
	}{
		{"grocery", CategoryGrocery},
		{" Household ", CategoryHousehold},
		{"ELECTRONICS", CategoryElectronics},
		{"clothing", CategoryClothing},
		{"party", CategoryParty},
		{"other", CategoryOther},
		{"", CategoryOther},
		{"garden", CategoryOther},
	}
	for _, tc := range cases {
		if got := ParseListCategory(tc.in); got != tc.want {
			t.Errorf("ParseListCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNotFoundErrorUnwraps(t *testing.T) {
	err := error(&NotFoundError{Kind: "item", ID: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != `item "x" not found` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
