package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shoplist/internal/config"
	"shoplist/internal/core"
	"shoplist/internal/lists"
	"shoplist/internal/log"
	"shoplist/internal/services"
)

type stubPublisher struct {
	published int
	closed    bool
}

func (p *stubPublisher) PublishBudgetAlert(context.Context, core.List, core.BudgetStatus) error {
	p.published++
	return nil
}

func (p *stubPublisher) Close() error {
	p.closed = true
	return nil
}

type stubExporter struct{}

func (stubExporter) ExportList(context.Context, core.List) (string, error) { return "Lists!A1", nil }

func testFactory() *DefaultFactory {
	f := NewFactory(log.NewText(io.Discard, slog.LevelError, log.ComponentBackend))
	f.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg := config.Load()
	cfg.ShareBackend = "dropbox"
	if _, err := FromAppConfig(cfg); err == nil {
		t.Fatal("expected error for unknown share backend")
	}

	cfg.ShareBackend = config.ShareSheets
	cfg.GoogleSpreadsheetID = "sheet-1"
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Share != ShareSheets || got.GoogleSpreadsheetID != "sheet-1" || got.AlertCacheSize != cfg.AlertCacheSize {
		t.Fatalf("unexpected config %+v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"plain memory", Config{Share: ShareNone}, false},
		{"unknown share", Config{Share: "ftp"}, true},
		{"sheets without id", Config{Share: ShareSheets, GoogleSheetName: "Lists"}, true},
		{"sheets without name", Config{Share: ShareSheets, GoogleSpreadsheetID: "x"}, true},
		{"alerts without cache", Config{Share: ShareNone, AMQPURL: "amqp://localhost"}, true},
		{"alerts with cache", Config{Share: ShareNone, AMQPURL: "amqp://localhost", AlertCacheSize: 10, AlertCacheTTL: time.Hour}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackendMemory(t *testing.T) {
	res, err := testFactory().CreateBackend(context.Background(), Config{Share: ShareNone, RecentLists: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cleanup != nil {
		t.Error("no cleanup expected without alerts")
	}
	if _, err := res.Lists.Share(context.Background(), "x"); err == nil {
		t.Error("share must fail without an exporter")
	}
	all, err := res.Lists.ListLists(context.Background(), "")
	if err != nil || len(all) != 0 {
		t.Fatalf("ListLists() = %v, %v", all, err)
	}
}

func TestCreateBackendSeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := `lists:
  - id: party
    name: Birthday
    category: party
    budget: "20"
    items:
      - name: Cake
        price: "15,50"
`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	f := testFactory()
	pub := &stubPublisher{}
	f.newPublisher = func(Config) (alertPublisher, error) { return pub, nil }
	f.newExporter = func(context.Context, Config) (lists.ListExporter, error) { return stubExporter{}, nil }

	res, err := f.CreateBackend(context.Background(), Config{
		SeedFile:            path,
		Share:               ShareSheets,
		GoogleSpreadsheetID: "sheet",
		GoogleSheetName:     "Lists",
		AMQPURL:             "amqp://localhost",
		AlertCacheSize:      8,
		AlertCacheTTL:       time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := res.Lists.GetList(context.Background(), "party")
	if err != nil {
		t.Fatal(err)
	}
	if core.StatusOf(l) != core.StatusWarning {
		t.Fatalf("seeded status = %s, want warning", core.StatusOf(l))
	}
	if ref, err := res.Lists.Share(context.Background(), "party"); err != nil || ref != "Lists!A1" {
		t.Fatalf("Share() = %q, %v", ref, err)
	}

	// tiers were primed from the seed, so only the move to over is published
	if _, _, err := res.Lists.AddItem(context.Background(), "party", "Balloons", false); err != nil {
		t.Fatal(err)
	}
	if pub.published != 0 {
		t.Fatalf("published %d alerts for an unchanged tier", pub.published)
	}
	items, _ := res.Lists.Items(context.Background(), "party", true)
	price := decimal.RequireFromString("4.50")
	if _, err := res.Lists.UpdateItem(context.Background(), "party", items[1].ID, services.ItemPatch{UnitPrice: &price}); err != nil {
		t.Fatal(err)
	}
	if pub.published != 1 {
		t.Fatalf("published %d alerts, want 1", pub.published)
	}

	if err := res.Cleanup(); err != nil || !pub.closed {
		t.Fatalf("cleanup err=%v closed=%v", err, pub.closed)
	}
	if swept := res.Caches.Sweep(); swept != 0 {
		t.Fatalf("nothing should have expired, swept %d", swept)
	}
}

func TestCreateBackendAlertsUnavailable(t *testing.T) {
	f := testFactory()
	f.newPublisher = func(Config) (alertPublisher, error) { return nil, errors.New("dial tcp: connection refused") }

	res, err := f.CreateBackend(context.Background(), Config{
		Share:          ShareNone,
		AMQPURL:        "amqp://localhost",
		AlertCacheSize: 8,
		AlertCacheTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("alerts must be best effort, got %v", err)
	}
	if res.Cleanup != nil {
		t.Error("no cleanup expected when AMQP is unavailable")
	}
}

func TestCreateBackendBadSeed(t *testing.T) {
	_, err := testFactory().CreateBackend(context.Background(), Config{Share: ShareNone, SeedFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
