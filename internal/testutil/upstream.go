package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/tillware/tillsync/internal/record"
	"github.com/tillware/tillsync/internal/upstream"
)

// FakeUpstream is an in-memory stand-in for the POS backend.
//
// It records every PostTransaction call so tests can assert exact delivery
// counts (reconcile idempotency depends on counting, not just state).
// Setting Unavailable makes every operation fail the way the real client
// does: wrapped in upstream.ErrUnavailable.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FakeUpstream struct {
	mu          sync.Mutex
	Locations   []record.Location
	Catalogs    map[string]map[string]any
	Unavailable bool

	posted []record.Transaction
}

// NewFakeUpstream creates an empty fake backend.
func NewFakeUpstream() *FakeUpstream {
	return &FakeUpstream{Catalogs: make(map[string]map[string]any)}
}

// SetUnavailable toggles simulated network failure.
func (f *FakeUpstream) SetUnavailable(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Unavailable = down
}

// FetchLocations implements cache.LocationFetcher.
func (f *FakeUpstream) FetchLocations(ctx context.Context, token string) ([]record.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Unavailable {
		return nil, fmt.Errorf("%w: fake upstream down", upstream.ErrUnavailable)
	}
	out := make([]record.Location, len(f.Locations))
	copy(out, f.Locations)
	return out, nil
}

// FetchCatalog implements cache.CatalogFetcher.
func (f *FakeUpstream) FetchCatalog(ctx context.Context, locationID, token string) (record.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Unavailable {
		return record.Catalog{}, fmt.Errorf("%w: fake upstream down", upstream.ErrUnavailable)
	}
	payload, ok := f.Catalogs[locationID]
	if !ok {
		payload = map[string]any{}
	}
	return record.Catalog{LocationID: locationID, Payload: payload}, nil
}

// PostTransaction implements the sync engine's deliverer. Deliveries are
// deduplicated on id the way the real upstream is required to, but every
// accepted call is still counted.
func (f *FakeUpstream) PostTransaction(ctx context.Context, tx record.Transaction, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Unavailable {
		return fmt.Errorf("%w: fake upstream down", upstream.ErrUnavailable)
	}
	f.posted = append(f.posted, tx)
	return nil
}

// PostCount returns how many transactions were delivered.
func (f *FakeUpstream) PostCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posted)
}

// Posted returns a copy of every delivered transaction, in delivery order.
func (f *FakeUpstream) Posted() []record.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]record.Transaction, len(f.posted))
	copy(out, f.posted)
	return out
}

// PostedIDs returns the delivered transaction ids, in delivery order.
func (f *FakeUpstream) PostedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.posted))
	for i, tx := range f.posted {
		ids[i] = tx.ID
	}
	return ids
}
