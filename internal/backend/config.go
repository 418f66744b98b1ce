package backend

import (
	"errors"
	"fmt"

	"shoplist/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	share := ShareType(appConfig.ShareBackend)
	if !share.IsValid() {
		return Config{}, fmt.Errorf("invalid share backend in config: %s", appConfig.ShareBackend)
	}

	return Config{
		SeedFile:    appConfig.SeedFile,
		RecentLists: appConfig.RecentLists,

		Share:               share,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,

		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPQueue:      appConfig.AMQPQueue,
		AlertCacheSize: appConfig.AlertCacheSize,
		AlertCacheTTL:  appConfig.AlertCacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Share.IsValid() {
		return fmt.Errorf("invalid share backend: %s", c.Share)
	}
	if c.Share == ShareSheets {
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets sharing")
		}
		if c.GoogleSheetName == "" {
			return errors.New("Google Sheet name is required for sheets sharing")
		}
	}
	if c.AMQPURL != "" && (c.AlertCacheSize <= 0 || c.AlertCacheTTL <= 0) {
		return errors.New("alert cache size and TTL must be positive when alerts are enabled")
	}
	return nil
}

// GetShareTypes returns all valid share types
func GetShareTypes() []ShareType {
	return []ShareType{ShareNone, ShareSheets}
}
