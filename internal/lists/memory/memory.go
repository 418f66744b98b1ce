package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"shoplist/internal/core"
	"shoplist/internal/lists"
)

var ErrDuplicateID = errors.New("list id already exists")

var _ lists.Store = (*Store)(nil)

// Store keeps lists in process memory. Every mutation swaps a whole list
// snapshot under the lock, so readers never see a partial change.
type Store struct {
	mu    sync.RWMutex
	lists map[string]core.List
}

func New(seed ...core.List) *Store {
	s := &Store{lists: make(map[string]core.List, len(seed))}
	for _, l := range seed {
		s.lists[l.ID] = l
	}
	return s
}

// Create stores a new list. IDs must be unique.
func (s *Store) Create(_ context.Context, l core.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[l.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, l.ID)
	}
	s.lists[l.ID] = l
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[id]
	if !ok {
		return core.List{}, &core.NotFoundError{Kind: "list", ID: id}
	}
	return l, nil
}

// All returns lists newest first, optionally filtered by a case-insensitive
// name query.
func (s *Store) All(_ context.Context, query string) ([]core.List, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	out := make([]core.List, 0, len(s.lists))
	for _, l := range s.lists {
		if query != "" && !strings.Contains(strings.ToLower(l.Name), query) {
			continue
		}
		out = append(out, l)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b core.List) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, fn func(core.List) (core.List, error)) (core.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.lists[id]
	if !ok {
		return core.List{}, &core.NotFoundError{Kind: "list", ID: id}
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	next.ID = id
	s.lists[id] = next
	return next, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[id]; !ok {
		return &core.NotFoundError{Kind: "list", ID: id}
	}
	delete(s.lists, id)
	return nil
}

// Len returns the number of stored lists.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}

type (
	seedFile struct {
		Lists []seedList `yaml:"lists"`
	}

	seedList struct {
		ID        string     `yaml:"id"`
		Name      string     `yaml:"name"`
		Category  string     `yaml:"category"`
		Budget    string     `yaml:"budget"`
		Note      string     `yaml:"note"`
		CreatedAt string     `yaml:"created_at"`
		Items     []seedItem `yaml:"items"`
	}

	seedItem struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Quantity  int    `yaml:"quantity"`
		Price     string `yaml:"price"`
		Completed bool   `yaml:"completed"`
		Category  string `yaml:"category"`
	}
)

// NewFromFile builds a store seeded from a YAML file. Missing ids are
// drawn from ids; a missing created_at defaults to now.
func NewFromFile(path string, ids core.IDSource, now func() time.Time) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw, ids, now)
}

// Parse decodes YAML seed data. Every list and item goes through the same
// validation as the live operations.
func Parse(raw []byte, ids core.IDSource, now func() time.Time) (*Store, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	s := New()
	for i, sl := range f.Lists {
		l, err := sl.toList(ids, now)
		if err != nil {
			return nil, fmt.Errorf("seed list %d: %w", i, err)
		}
		if err := s.Create(context.Background(), l); err != nil {
			return nil, fmt.Errorf("seed list %d: %w", i, err)
		}
	}
	return s, nil
}

func (sl seedList) toList(ids core.IDSource, now func() time.Time) (core.List, error) {
	budget := decimal.Zero
	if strings.TrimSpace(sl.Budget) != "" {
		b, err := core.ParseAmount(sl.Budget)
		if err != nil {
			return core.List{}, &core.ValidationError{Field: "budget", Err: err}
		}
		budget = b
	}
	created := now()
	if sl.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, sl.CreatedAt)
		if err != nil {
			return core.List{}, fmt.Errorf("created_at: %w", err)
		}
		created = t
	}
	id := sl.ID
	if id == "" {
		id = ids.NewID()
	}
	l, err := core.NewList(id, sl.Name, core.ParseListCategory(sl.Category), budget, sl.Note, created)
	if err != nil {
		return core.List{}, err
	}

	items := core.NewLedger()
	for _, si := range sl.Items {
		itemIDs := ids
		if si.ID != "" {
			if _, dup := items.Find(si.ID); dup {
				return core.List{}, fmt.Errorf("duplicate item id %q", si.ID)
			}
			itemIDs = core.IDSourceFunc(func() string { return si.ID })
		}
		var it core.Item
		if items, it, err = items.AddItem(itemIDs, si.Name); err != nil {
			return core.List{}, err
		}
		if si.Quantity != 0 {
			if items, err = items.SetQuantity(it.ID, si.Quantity); err != nil {
				return core.List{}, err
			}
		}
		if strings.TrimSpace(si.Price) != "" {
			p, err := core.ParseAmount(si.Price)
			if err != nil {
				return core.List{}, &core.ValidationError{Field: "price", Err: err}
			}
			if items, err = items.SetPrice(it.ID, p); err != nil {
				return core.List{}, err
			}
		}
		if items, err = items.SetCategory(it.ID, si.Category); err != nil {
			return core.List{}, err
		}
		if si.Completed {
			if items, err = items.ToggleCompleted(it.ID); err != nil {
				return core.List{}, err
			}
		}
	}
	return l.WithItems(items), nil
}
