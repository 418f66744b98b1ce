package core

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Ledger is an immutable, ordered snapshot of the items of one list.
//
// Every mutating method leaves the receiver untouched and returns a new
// snapshot backed by a fresh slice, so a Ledger handed to a reader never
// changes underneath it. On failure the receiver is returned unchanged
// together with the error.
type Ledger struct {
	items []Item
}

// NewLedger copies items into a new snapshot.
func NewLedger(items ...Item) Ledger {
	return Ledger{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l Ledger) Len() int { return len(l.items) }

// Items returns a copy of the items in display order.
func (l Ledger) Items() []Item {
	if len(l.items) == 0 {
		return []Item{}
	}
	return slices.Clone(l.items)
}

// All iterates the items in display order.
func (l Ledger) All() iter.Seq[Item] {
	return slices.Values(l.items)
}

// Find returns the item with the given id.
func (l Ledger) Find(id string) (Item, bool) {
	i := l.index(id)
	if i < 0 {
		return Item{}, false
	}
	return l.items[i], true
}

func (l Ledger) index(id string) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.ID == id })
}

// AddItem appends a new item named name with quantity 1, price 0,
// not completed and the default category.
func (l Ledger) AddItem(ids IDSource, name string) (Ledger, Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return l, Item{}, invalid("name", ErrEmptyName)
	}
	it := Item{
		ID:        ids.NewID(),
		Name:      name,
		Quantity:  1,
		UnitPrice: decimal.Zero,
		Category:  DefaultItemCategory,
	}
	next := make([]Item, len(l.items), len(l.items)+1)
	copy(next, l.items)
	return Ledger{items: append(next, it)}, it, nil
}

// ToggleCompleted flips the completion flag of one item.
func (l Ledger) ToggleCompleted(id string) (Ledger, error) {
	return l.update(id, func(it *Item) error {
		it.Completed = !it.Completed
		return nil
	})
}

// RemoveItem drops one item, keeping the order of the rest.
func (l Ledger) RemoveItem(id string) (Ledger, error) {
	i := l.index(id)
	if i < 0 {
		return l, &NotFoundError{Kind: "item", ID: id}
	}
	return Ledger{items: slices.Delete(slices.Clone(l.items), i, i+1)}, nil
}

// SetQuantity replaces the quantity of one item. Quantities below 1 are rejected.
func (l Ledger) SetQuantity(id string, quantity int) (Ledger, error) {
	if quantity < 1 {
		return l, invalid("quantity", ErrInvalidQuantity)
	}
	return l.update(id, func(it *Item) error {
		it.Quantity = quantity
		return nil
	})
}

// SetPrice replaces the unit price of one item. Negative prices are rejected.
func (l Ledger) SetPrice(id string, price decimal.Decimal) (Ledger, error) {
	if price.IsNegative() {
		return l, invalid("unit_price", ErrNegativePrice)
	}
	return l.update(id, func(it *Item) error {
		it.UnitPrice = price
		return nil
	})
}

// SetCategory relabels one item. A blank category resets it to the default.
func (l Ledger) SetCategory(id, category string) (Ledger, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultItemCategory
	}
	return l.update(id, func(it *Item) error {
		it.Category = category
		return nil
	})
}

// ClearCompleted drops every completed item and reports how many went.
func (l Ledger) ClearCompleted() (Ledger, int) {
	next := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		if !it.Completed {
			next = append(next, it)
		}
	}
	return Ledger{items: next}, len(l.items) - len(next)
}

// update validates id, then applies fn to a copy of the matching item.
func (l Ledger) update(id string, fn func(*Item) error) (Ledger, error) {
	i := l.index(id)
	if i < 0 {
		return l, &NotFoundError{Kind: "item", ID: id}
	}
	next := slices.Clone(l.items)
	if err := fn(&next[i]); err != nil {
		return l, err
	}
	return Ledger{items: next}, nil
}

// Total returns UnitPrice × Quantity, unrounded.
func (it Item) Total() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// MarshalJSON encodes the ledger as a plain array.
func (l Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Items())
}

// UnmarshalJSON decodes a plain array of items.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	l.items = items
	return nil
}
