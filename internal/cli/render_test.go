package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"

	"github.com/tillware/tillsync/internal/cache"
	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/syncer"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderLocationsSeed(t *testing.T) {
	out := renderLocations(cache.SeedLocations(), cache.SourceSeed)
	newGoldie(t).Assert(t, "locations_seed", []byte(out))
}

func TestRenderLocationsEmpty(t *testing.T) {
	out := renderLocations(nil, cache.SourceEmpty)
	newGoldie(t).Assert(t, "locations_empty", []byte(out))
}

func TestRenderSaleOffline(t *testing.T) {
	tx := record.Transaction{
		ID:         "tx-0001",
		LocationID: "retail-001",
		Kind:       record.KindRetailSale,
		LineItems: []record.LineItem{
			{ItemID: "sku-42", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
			{ItemID: "sku-7", UnitPrice: decimal.RequireFromString("4.50"), Quantity: 1},
		},
		Total: decimal.RequireFromString("44.48"),
	}
	newGoldie(t).Assert(t, "sale_offline", []byte(renderSale(tx, false)))
}

func TestRenderSaleDelivered(t *testing.T) {
	tx := record.Transaction{
		ID:         "tx-0002",
		LocationID: "restaurant-001",
		Kind:       record.KindRestaurantOrder,
		LineItems: []record.LineItem{
			{ItemID: "menu-3", UnitPrice: decimal.RequireFromString("12.00"), Quantity: 1, Notes: "no onions"},
		},
		Total:    decimal.RequireFromString("12.00"),
		TableRef: "T4",
	}
	newGoldie(t).Assert(t, "sale_delivered", []byte(renderSale(tx, true)))
}

func TestRenderReport(t *testing.T) {
	out := renderReport(syncer.Report{Attempted: 3, Delivered: 2, Failed: 1})
	newGoldie(t).Assert(t, "report_partial", []byte(out))
}

func TestRenderReportEmpty(t *testing.T) {
	out := renderReport(syncer.Report{})
	newGoldie(t).Assert(t, "report_empty", []byte(out))
}

func TestRenderStatus(t *testing.T) {
	out := renderStatus(statusResult{
		Online:         true,
		Authenticated:  true,
		UpstreamURL:    "http://localhost:8080",
		DBPath:         "tillsync.db",
		Locations:      4,
		UnsyncedCount:  1234,
		CacheSizeBytes: 5242880,
	})
	newGoldie(t).Assert(t, "status_online", []byte(out))
}

func TestRenderCatalog(t *testing.T) {
	cat := record.Catalog{
		LocationID: "restaurant-001",
		Payload: map[string]any{
			record.CatalogKeyMenuItems: []any{"burger", "fries"},
			record.CatalogKeyTables:    float64(12),
		},
	}
	newGoldie(t).Assert(t, "catalog_cached", []byte(renderCatalog(cat, cache.SourceCached)))
}

func TestRenderCatalogEmpty(t *testing.T) {
	cat := record.Catalog{LocationID: "retail-001"}
	newGoldie(t).Assert(t, "catalog_empty", []byte(renderCatalog(cat, cache.SourceEmpty)))
}
