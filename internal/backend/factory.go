package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoplist/internal/amqp"
	"shoplist/internal/cache"
	"shoplist/internal/core"
	"shoplist/internal/lists"
	gsheet "shoplist/internal/lists/google"
	"shoplist/internal/lists/memory"
	"shoplist/internal/log"
	"shoplist/internal/services"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	ids    core.IDSource
	now    func() time.Time

	// seams for tests
	newExporter  func(ctx context.Context, config Config) (lists.ListExporter, error)
	newPublisher func(config Config) (alertPublisher, error)
}

type alertPublisher interface {
	services.AlertPublisher
	Close() error
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger,
		ids:    core.UUIDSource{},
		now:    time.Now,
		newExporter: func(ctx context.Context, config Config) (lists.ListExporter, error) {
			return gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName)
		},
		newPublisher: func(config Config) (alertPublisher, error) {
			return amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		},
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{
		services.WithIDSource(f.ids),
		services.WithClock(f.now),
		services.WithRecentLists(config.RecentLists),
		services.WithLogger(f.logger.WithComponent(log.ComponentLists)),
	}

	if config.Share == ShareSheets {
		exporter, err := f.newExporter(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		opts = append(opts, services.WithExporter(exporter))
		f.logger.Info("Initialized Google Sheets sharing", "sheet", config.GoogleSheetName)
	}

	caches := cache.NewManager(f.logger.WithComponent(log.ComponentCache).Logger)
	var cleanup CleanupFunc
	if config.AMQPURL != "" {
		publisher, err := f.newPublisher(config)
		if err != nil {
			// alerts are best effort; lists work without them
			f.logger.Warn("Failed to initialize AMQP client, continuing without budget alerts", "error", err)
		} else {
			last := cache.NewLRUCache[core.BudgetStatus](config.AlertCacheSize, config.AlertCacheTTL)
			caches.Register(last)
			tracker := services.NewAlertTracker(publisher, last, f.logger.WithComponent(log.ComponentAlerts))
			opts = append(opts, services.WithAlerts(tracker))
			cleanup = publisher.Close
			f.logger.Info("Initialized AMQP budget alerts",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewListService(store, opts...)
	if err := svc.PrimeAlerts(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("prime alert tiers: %w", err), runCleanup(cleanup))
	}

	f.logger.Info("Initialized list backend",
		"lists", store.Len(),
		"share", config.Share.String(),
		"alerts_enabled", cleanup != nil)

	return &Result{Lists: svc, Caches: caches, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createStore(config Config) (*memory.Store, error) {
	if config.SeedFile == "" {
		return memory.New(), nil
	}
	store, err := memory.NewFromFile(config.SeedFile, f.ids, f.now)
	if err != nil {
		return nil, fmt.Errorf("failed to seed list store: %w", err)
	}
	f.logger.Info("Seeded list store", "path", config.SeedFile, log.FieldOperation, log.OpSeed, "lists", store.Len())
	return store, nil
}

func runCleanup(fn CleanupFunc) error {
	if fn == nil {
		return nil
	}
	return fn()
}
