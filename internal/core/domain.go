package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultItemCategory is assigned to items created without a category.
const DefaultItemCategory = "Other"

const (
	CategoryGrocery     ListCategory = "grocery"
	CategoryHousehold   ListCategory = "household"
	CategoryElectronics ListCategory = "electronics"
	CategoryClothing    ListCategory = "clothing"
	CategoryParty       ListCategory = "party"
	CategoryOther       ListCategory = "other"
)

type (
	// ListCategory is the closed set of list kinds.
	ListCategory string

	Item struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		Completed bool            `json:"completed"`
		Category  string          `json:"category"`
	}

	List struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Category    ListCategory    `json:"category"`
		TotalBudget decimal.Decimal `json:"total_budget"`
		Note        string          `json:"note,omitempty"`
		Items       Ledger          `json:"items"`
		CreatedAt   time.Time       `json:"created_at"`
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrNegativeBudget  = errors.New("budget cannot be negative")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNotFound        = errors.New("not found")
)

// ValidationError reports a rejected input. It unwraps to one of the
// sentinel errors above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports an operation that targeted a missing list or item.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// ListCategories returns every list category in display order.
func ListCategories() []ListCategory {
	return []ListCategory{
		CategoryGrocery,
		CategoryHousehold,
		CategoryElectronics,
		CategoryClothing,
		CategoryParty,
		CategoryOther,
	}
}

// ParseListCategory maps a free-form key onto the closed set.
// Unknown or empty keys fall back to CategoryOther.
func ParseListCategory(s string) ListCategory {
	switch c := ListCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryGrocery, CategoryHousehold, CategoryElectronics, CategoryClothing, CategoryParty:
		return c
	default:
		return CategoryOther
	}
}

// Label returns the human readable name used in overviews.
func (c ListCategory) Label() string {
	switch c {
	case CategoryGrocery:
		return "Groceries"
	case CategoryHousehold:
		return "Household"
	case CategoryElectronics:
		return "Electronics"
	case CategoryClothing:
		return "Clothing"
	case CategoryParty:
		return "Party"
	default:
		return "Other"
	}
}

// NewList builds an empty list. The name must not be blank and the budget
// must not be negative; a zero budget means no budget is set.
func NewList(id, name string, category ListCategory, budget decimal.Decimal, note string, createdAt time.Time) (List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return List{}, invalid("name", ErrEmptyName)
	}
	if budget.IsNegative() {
		return List{}, invalid("total_budget", ErrNegativeBudget)
	}
	return List{
		ID:          id,
		Name:        name,
		Category:    ParseListCategory(string(category)),
		TotalBudget: budget,
		Note:        strings.TrimSpace(note),
		CreatedAt:   createdAt,
	}, nil
}

// WithItems returns a copy of the list holding the given ledger.
func (l List) WithItems(items Ledger) List {
	l.Items = items
	return l
}
