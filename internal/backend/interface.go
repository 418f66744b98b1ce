package backend

import (
	"context"
	"time"

	"shoplist/internal/cache"
	"shoplist/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result holds the wired application service and the resources behind it.
type Result struct {
	Lists *services.ListService
	// Caches must be swept periodically; see cache.Manager.StartCleanup.
	Caches  *cache.Manager
	Cleanup CleanupFunc
}

// Factory builds the application service from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	SeedFile    string
	RecentLists int

	Share               ShareType
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Alerts are off when AMQPURL is empty.
	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string
	AlertCacheSize int
	AlertCacheTTL  time.Duration
}

// ShareType selects where shared lists are exported.
type ShareType string

const (
	ShareNone   ShareType = "none"
	ShareSheets ShareType = "sheets"
)

// String implements fmt.Stringer
func (st ShareType) String() string {
	return string(st)
}

// IsValid returns true if the share type is known
func (st ShareType) IsValid() bool {
	switch st {
	case ShareNone, ShareSheets:
		return true
	default:
		return false
	}
}
