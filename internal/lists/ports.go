package lists

import (
	"context"

	"shoplist/internal/core"
)

// Ports for list storage and outbound adapters.
type (
	ListReader interface {
		Get(ctx context.Context, id string) (core.List, error)
		// All returns lists newest first. A non-empty query keeps only lists
		// whose name contains it, ignoring case.
		All(ctx context.Context, query string) ([]core.List, error)
	}

	ListWriter interface {
		Create(ctx context.Context, l core.List) error
		// Update replaces the stored list with the result of fn. fn runs once,
		// holding the list exclusively, and sees the current snapshot; when it
		// returns an error nothing is stored.
		Update(ctx context.Context, id string, fn func(core.List) (core.List, error)) (core.List, error)
	}

	ListDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// ListExporter publishes a list snapshot to an external destination and
	// returns a reference to where it was written.
	ListExporter interface {
		ExportList(ctx context.Context, l core.List) (ref string, err error)
	}
)

// Store is the full set of storage ports.
type Store interface {
	ListReader
	ListWriter
	ListDeleter
}
