package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"shoplist/internal/core"
	"shoplist/internal/lists"
	"shoplist/internal/log"
)

var ErrShareNotConfigured = errors.New("share backend not configured")

const defaultRecentLists = 5

// ListService runs list and item operations against a store. Every item
// mutation goes through the store's atomic Update; tier changes are recorded
// under that lock and published once it is released.
type ListService struct {
	store    lists.Store
	exporter lists.ListExporter
	alerts   *AlertTracker
	ids      core.IDSource
	now      func() time.Time
	recent   int
	logger   *log.Logger
	events   *log.StructuredLogger
}

type Option func(*ListService)

// WithExporter enables Share.
func WithExporter(e lists.ListExporter) Option {
	return func(s *ListService) { s.exporter = e }
}

// WithAlerts publishes tier changes through t.
func WithAlerts(t *AlertTracker) Option {
	return func(s *ListService) { s.alerts = t }
}

func WithIDSource(ids core.IDSource) Option {
	return func(s *ListService) { s.ids = ids }
}

func WithClock(now func() time.Time) Option {
	return func(s *ListService) { s.now = now }
}

// WithRecentLists sets how many lists the overview shows as recent.
func WithRecentLists(n int) Option {
	return func(s *ListService) { s.recent = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *ListService) { s.logger = l }
}

func NewListService(store lists.Store, opts ...Option) *ListService {
	s := &ListService{
		store:  store,
		ids:    core.UUIDSource{},
		now:    time.Now,
		recent: defaultRecentLists,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = defaultLogger(log.ComponentLists)
	}
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

func defaultLogger(component string) *log.Logger {
	return log.New(log.Config{Handler: slog.Default().Handler(), Component: component})
}

// NewListInput carries the fields of a list to create.
type NewListInput struct {
	Name     string
	Category core.ListCategory
	Budget   decimal.Decimal
	Note     string
}

// CreateList validates and stores a new empty list.
func (s *ListService) CreateList(ctx context.Context, in NewListInput) (core.List, error) {
	l, err := core.NewList(s.ids.NewID(), in.Name, in.Category, in.Budget, in.Note, s.now())
	if err != nil {
		return core.List{}, err
	}
	if err := s.store.Create(ctx, l); err != nil {
		return core.List{}, fmt.Errorf("create list: %w", err)
	}
	if s.alerts != nil {
		s.alerts.Prime(l)
	}
	s.logger.InfoContext(ctx, "List created", log.NewFields().
		WithList(l.ID, l.Name).
		WithOperation(log.OpCreate).ToSlice()...)
	return l, nil
}

func (s *ListService) GetList(ctx context.Context, id string) (core.List, error) {
	return s.store.Get(ctx, id)
}

// ListLists returns lists newest first, optionally filtered by name.
func (s *ListService) ListLists(ctx context.Context, query string) ([]core.List, error) {
	return s.store.All(ctx, query)
}

func (s *ListService) DeleteList(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.alerts != nil {
		s.alerts.Forget(id)
	}
	s.logger.InfoContext(ctx, "List deleted", log.FieldListID, id, log.FieldOperation, log.OpDelete)
	return nil
}

// Items returns the list's items, leaving out completed ones unless
// showCompleted is set.
func (s *ListService) Items(ctx context.Context, listID string, showCompleted bool) ([]core.Item, error) {
	l, err := s.store.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	items := slices.Collect(core.FilterByCompletion(l, showCompleted))
	if items == nil {
		items = []core.Item{}
	}
	return items, nil
}

// AddItem appends a new item. With autoCategorize the item's category is
// guessed from its name.
func (s *ListService) AddItem(ctx context.Context, listID, name string, autoCategorize bool) (core.List, core.Item, error) {
	var added core.Item
	l, err := s.mutate(ctx, listID, log.OpAddItem, "", func(items core.Ledger) (core.Ledger, error) {
		next, it, err := items.AddItem(s.ids, name)
		if err != nil {
			return items, err
		}
		if autoCategorize {
			if next, err = next.SetCategory(it.ID, core.SuggestItemCategory(it.Name)); err != nil {
				return items, err
			}
			it, _ = next.Find(it.ID)
		}
		added = it
		return next, nil
	})
	if err != nil {
		return core.List{}, core.Item{}, err
	}
	return l, added, nil
}

func (s *ListService) ToggleItem(ctx context.Context, listID, itemID string) (core.List, error) {
	return s.mutate(ctx, listID, log.OpToggle, itemID, func(items core.Ledger) (core.Ledger, error) {
		return items.ToggleCompleted(itemID)
	})
}

func (s *ListService) RemoveItem(ctx context.Context, listID, itemID string) (core.List, error) {
	return s.mutate(ctx, listID, log.OpDelete, itemID, func(items core.Ledger) (core.Ledger, error) {
		return items.RemoveItem(itemID)
	})
}

// ItemPatch lists the item fields to change; nil fields are left alone.
type ItemPatch struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
	Category  *string
}

// UpdateItem applies every field of p or none of them.
func (s *ListService) UpdateItem(ctx context.Context, listID, itemID string, p ItemPatch) (core.List, error) {
	return s.mutate(ctx, listID, log.OpUpdate, itemID, func(items core.Ledger) (core.Ledger, error) {
		if _, ok := items.Find(itemID); !ok {
			return items, &core.NotFoundError{Kind: "item", ID: itemID}
		}
		next := items
		var err error
		if p.Quantity != nil {
			if next, err = next.SetQuantity(itemID, *p.Quantity); err != nil {
				return items, err
			}
		}
		if p.UnitPrice != nil {
			if next, err = next.SetPrice(itemID, *p.UnitPrice); err != nil {
				return items, err
			}
		}
		if p.Category != nil {
			if next, err = next.SetCategory(itemID, *p.Category); err != nil {
				return items, err
			}
		}
		return next, nil
	})
}

// ClearCompleted drops completed items and reports how many were removed.
func (s *ListService) ClearCompleted(ctx context.Context, listID string) (core.List, int, error) {
	var removed int
	l, err := s.mutate(ctx, listID, log.OpClear, "", func(items core.Ledger) (core.Ledger, error) {
		var next core.Ledger
		next, removed = items.ClearCompleted()
		return next, nil
	})
	return l, removed, err
}

// Share exports the list through the configured exporter.
func (s *ListService) Share(ctx context.Context, listID string) (string, error) {
	if s.exporter == nil {
		return "", ErrShareNotConfigured
	}
	l, err := s.store.Get(ctx, listID)
	if err != nil {
		return "", err
	}
	ref, err := s.exporter.ExportList(ctx, l)
	if err != nil {
		s.logger.ErrorContext(ctx, "List export failed", log.NewFields().
			WithList(l.ID, l.Name).
			WithOperation(log.OpShare).
			WithError(err).ToSlice()...)
		return "", fmt.Errorf("export list: %w", err)
	}
	s.logger.InfoContext(ctx, "List shared", log.FieldListID, l.ID, log.FieldExportRef, ref)
	return ref, nil
}

// Overview aggregates every stored list.
func (s *ListService) Overview(ctx context.Context) (core.Overview, error) {
	all, err := s.store.All(ctx, "")
	if err != nil {
		return core.Overview{}, err
	}
	return core.BuildOverview(all, s.recent), nil
}

// PrimeAlerts records the current tier of every stored list so the first
// change after startup is compared against real state.
func (s *ListService) PrimeAlerts(ctx context.Context) error {
	if s.alerts == nil {
		return nil
	}
	all, err := s.store.All(ctx, "")
	if err != nil {
		return err
	}
	for _, l := range all {
		s.alerts.Prime(l)
	}
	return nil
}

// mutate applies fn to the list's ledger inside one atomic store update.
func (s *ListService) mutate(ctx context.Context, listID, op, itemID string, fn func(core.Ledger) (core.Ledger, error)) (core.List, error) {
	var (
		previous core.BudgetStatus
		changed  bool
	)
	l, err := s.store.Update(ctx, listID, func(cur core.List) (core.List, error) {
		items, err := fn(cur.Items)
		if err != nil {
			return cur, err
		}
		next := cur.WithItems(items)
		if s.alerts != nil {
			previous, changed = s.alerts.Record(cur, next)
		}
		return next, nil
	})
	if err != nil {
		return core.List{}, err
	}

	status := core.StatusOf(l)
	s.events.LogListChanged(ctx, op, l.ID, itemID,
		core.FormatAmount(core.TotalCost(l)), core.FormatAmount(l.TotalBudget), string(status))

	if changed {
		s.alerts.Publish(ctx, l, previous)
	}
	return l, nil
}
