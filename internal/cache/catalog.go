package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillware/tillsync/internal/connectivity"
	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/store"
)

// CatalogFetcher is the upstream operation the catalog cache consumes.
// Satisfied by *upstream.Client.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, locationID, token string) (record.Catalog, error)
}

// CatalogResult is a catalog plus its provenance.
type CatalogResult struct {
	Catalog record.Catalog `json:"catalog"`
	Source  Source         `json:"source"`
}

// CatalogCache is the read-through cache of per-location settings/catalog
// payloads (menu items, tables, retail items).
type CatalogCache struct {
	store   *store.Store
	monitor *connectivity.Monitor
	fetcher CatalogFetcher
	now     func() time.Time
}

// CatalogCacheOption configures a CatalogCache.
type CatalogCacheOption func(*CatalogCache)

// WithCatalogClock overrides the wall clock (tests).
func WithCatalogClock(now func() time.Time) CatalogCacheOption {
	return func(c *CatalogCache) { c.now = now }
}

// NewCatalogCache wires the cache to its store, monitor, and fetcher.
func NewCatalogCache(s *store.Store, m *connectivity.Monitor, f CatalogFetcher, opts ...CatalogCacheOption) *CatalogCache {
	c := &CatalogCache{store: s, monitor: m, fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCatalog returns the catalog for a location: live fetch first, then
// the durable store, then an empty catalog. There is no seed - a new
// location with no menu yet legitimately has an empty catalog.
func (c *CatalogCache) LoadCatalog(ctx context.Context, locationID, token string) (CatalogResult, error) {
	if token != "" && c.monitor.IsOnline() {
		cat, err := c.fetcher.FetchCatalog(ctx, locationID, token)
		if err == nil {
			if err := c.SaveCatalog(ctx, locationID, cat.Payload); err != nil {
				return CatalogResult{}, fmt.Errorf("persist fetched catalog: %w", err)
			}
			return CatalogResult{Catalog: cat, Source: SourceLive}, nil
		}
		slog.Warn("catalog fetch failed, serving cached data", "location", locationID, "error", err)
	}

	set, err := c.store.GetSettings(ctx, locationID)
	if err != nil {
		if !store.IsNotFound(err) {
			return CatalogResult{}, fmt.Errorf("read cached catalog: %w", err)
		}
		return CatalogResult{
			Catalog: record.Catalog{LocationID: locationID, Payload: map[string]any{}},
			Source:  SourceEmpty,
		}, nil
	}

	return CatalogResult{
		Catalog: record.Catalog{LocationID: locationID, Payload: set.Payload},
		Source:  SourceCached,
	}, nil
}

// SaveCatalog shallow-merges a partial update into the location's settings
// payload and writes the merged record back, stamping LastUpdated.
//
// Concurrent saves for the same location are not ordered by the core - last
// write wins. Callers needing ordering must serialize themselves.
func (c *CatalogCache) SaveCatalog(ctx context.Context, locationID string, partial map[string]any) error {
	current, err := c.store.GetSettings(ctx, locationID)
	if err != nil {
		if !store.IsNotFound(err) {
			return fmt.Errorf("read settings for merge: %w", err)
		}
		current = record.Settings{
			ID:         record.SettingsID(locationID),
			LocationID: locationID,
			Payload:    map[string]any{},
		}
	}

	if current.Payload == nil {
		current.Payload = map[string]any{}
	}
	for k, v := range partial {
		current.Payload[k] = v
	}
	current.LastUpdated = c.now().UTC()

	if err := c.store.PutSettings(ctx, current); err != nil {
		return fmt.Errorf("write merged settings: %w", err)
	}
	return nil
}
