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

// Source says where a cache result came from. The UI shows the
// offline/cached banner for anything other than SourceLive.
type Source string

const (
	// SourceLive means the result came from a successful upstream fetch.
	SourceLive Source = "live"
	// SourceCached means the result was served from the durable store.
	SourceCached Source = "cached"
	// SourceSeed means the built-in seed set was served (locations only).
	SourceSeed Source = "seed"
	// SourceEmpty means no data exists anywhere (catalog only - a
	// legitimate state for a brand-new location, not an error).
	SourceEmpty Source = "empty"
)

// LocationFetcher is the upstream operation the location cache consumes.
// Satisfied by *upstream.Client.
type LocationFetcher interface {
	FetchLocations(ctx context.Context, token string) ([]record.Location, error)
}

// LocationResult is a location set plus its provenance.
type LocationResult struct {
	Locations []record.Location `json:"locations"`
	Source    Source            `json:"source"`
}

// LocationCache is the read-through cache of purchasable POS locations.
type LocationCache struct {
	store   *store.Store
	monitor *connectivity.Monitor
	fetcher LocationFetcher
	now     func() time.Time
}

// LocationCacheOption configures a LocationCache.
type LocationCacheOption func(*LocationCache)

// WithLocationClock overrides the wall clock (tests).
func WithLocationClock(now func() time.Time) LocationCacheOption {
	return func(c *LocationCache) { c.now = now }
}

// NewLocationCache wires the cache to its store, monitor, and fetcher.
func NewLocationCache(s *store.Store, m *connectivity.Monitor, f LocationFetcher, opts ...LocationCacheOption) *LocationCache {
	c := &LocationCache{store: s, monitor: m, fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadLocations returns the location set, preferring a live fetch, then the
// durable store, then the built-in seed set.
//
// A fetch failure is swallowed and logged - it never surfaces while a later
// step yields records. Local-storage failures do surface.
func (c *LocationCache) LoadLocations(ctx context.Context, token string) (LocationResult, error) {
	if token != "" && c.monitor.IsOnline() {
		locs, err := c.fetcher.FetchLocations(ctx, token)
		if err == nil {
			stamped := c.stampSynced(locs)
			if err := c.store.ReplaceLocations(ctx, stamped); err != nil {
				return LocationResult{}, fmt.Errorf("persist fetched locations: %w", err)
			}
			return LocationResult{Locations: stamped, Source: SourceLive}, nil
		}
		slog.Warn("location fetch failed, serving cached data", "error", err)
	}

	stored, err := c.store.ListLocations(ctx)
	if err != nil {
		return LocationResult{}, fmt.Errorf("read cached locations: %w", err)
	}
	if len(stored) > 0 {
		return LocationResult{Locations: stored, Source: SourceCached}, nil
	}

	// Brand-new terminal: persist and serve the seed set.
	seed := SeedLocations()
	if err := c.store.ReplaceLocations(ctx, seed); err != nil {
		return LocationResult{}, fmt.Errorf("persist seed locations: %w", err)
	}
	slog.Info("location store empty, seeded built-in set", "count", len(seed))
	return LocationResult{Locations: seed, Source: SourceSeed}, nil
}

// stampSynced records the fetch time on each location before persisting.
func (c *LocationCache) stampSynced(locs []record.Location) []record.Location {
	now := c.now().UTC()
	stamped := make([]record.Location, len(locs))
	for i, loc := range locs {
		ts := now
		loc.LastSyncedAt = &ts
		stamped[i] = loc
	}
	return stamped
}
