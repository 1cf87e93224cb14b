package store

import (
	"context"
	"testing"
	"time"

	"github.com/tillware/tillsync/internal/record"
)

func TestReplaceLocations_WholesaleReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []record.Location{
		testLocation("retail-001", record.KindRetail),
		testLocation("restaurant-001", record.KindRestaurant),
	}
	if err := s.ReplaceLocations(ctx, first); err != nil {
		t.Fatalf("first ReplaceLocations() failed: %v", err)
	}

	// Replace with a disjoint set: the old records must be gone.
	second := []record.Location{
		testLocation("retail-002", record.KindRetail),
	}
	if err := s.ReplaceLocations(ctx, second); err != nil {
		t.Fatalf("second ReplaceLocations() failed: %v", err)
	}

	locs, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() failed: %v", err)
	}
	if len(locs) != 1 {
		t.Fatalf("expected 1 location after replace, got %d", len(locs))
	}
	if locs[0].ID != "retail-002" {
		t.Errorf("expected retail-002, got %s", locs[0].ID)
	}
}

func TestReplaceLocations_DuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dup := []record.Location{
		testLocation("retail-001", record.KindRetail),
		testLocation("retail-001", record.KindRetail),
	}
	err := s.ReplaceLocations(ctx, dup)
	if !IsDuplicateKey(err) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// The failed replace must not have committed anything.
	locs, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() failed: %v", err)
	}
	if len(locs) != 0 {
		t.Errorf("expected empty collection after failed replace, got %d records", len(locs))
	}
}

func TestGetLocation_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetLocation(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetLocation_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	synced := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	loc := record.Location{
		ID:           "restaurant-002",
		Name:         "Garden Cafe",
		Kind:         record.KindRestaurant,
		Address:      "321 Garden St, City, State",
		IsActive:     true,
		LastSyncedAt: &synced,
	}
	if err := s.PutLocation(ctx, loc); err != nil {
		t.Fatalf("PutLocation() failed: %v", err)
	}

	got, err := s.GetLocation(ctx, "restaurant-002")
	if err != nil {
		t.Fatalf("GetLocation() failed: %v", err)
	}
	if got.Name != loc.Name || got.Kind != loc.Kind || got.Address != loc.Address {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.LastSyncedAt == nil || !got.LastSyncedAt.Equal(synced) {
		t.Errorf("LastSyncedAt mismatch: got %v, want %v", got.LastSyncedAt, synced)
	}
}

func TestListLocationsByKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	locs := []record.Location{
		testLocation("retail-001", record.KindRetail),
		testLocation("retail-002", record.KindRetail),
		testLocation("restaurant-001", record.KindRestaurant),
	}
	if err := s.ReplaceLocations(ctx, locs); err != nil {
		t.Fatalf("ReplaceLocations() failed: %v", err)
	}

	retail, err := s.ListLocationsByKind(ctx, record.KindRetail)
	if err != nil {
		t.Fatalf("ListLocationsByKind() failed: %v", err)
	}
	if len(retail) != 2 {
		t.Errorf("expected 2 retail locations, got %d", len(retail))
	}
	for _, loc := range retail {
		if loc.Kind != record.KindRetail {
			t.Errorf("kind index returned %s location %s", loc.Kind, loc.ID)
		}
	}
}

func TestListActiveLocations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	active := testLocation("retail-001", record.KindRetail)
	inactive := testLocation("retail-002", record.KindRetail)
	inactive.IsActive = false

	if err := s.ReplaceLocations(ctx, []record.Location{active, inactive}); err != nil {
		t.Fatalf("ReplaceLocations() failed: %v", err)
	}

	got, err := s.ListActiveLocations(ctx)
	if err != nil {
		t.Fatalf("ListActiveLocations() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "retail-001" {
		t.Errorf("expected only retail-001 active, got %+v", got)
	}
}

func TestListLocations_EmptyReturnsEmptySlice(t *testing.T) {
	s := openTestStore(t)

	locs, err := s.ListLocations(context.Background())
	if err != nil {
		t.Fatalf("ListLocations() failed: %v", err)
	}
	if locs == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(locs) != 0 {
		t.Errorf("expected 0 locations, got %d", len(locs))
	}
}

func TestClearLocations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutLocation(ctx, testLocation("retail-001", record.KindRetail)); err != nil {
		t.Fatalf("PutLocation() failed: %v", err)
	}
	if err := s.ClearLocations(ctx); err != nil {
		t.Fatalf("ClearLocations() failed: %v", err)
	}

	locs, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() failed: %v", err)
	}
	if len(locs) != 0 {
		t.Errorf("expected empty collection, got %d records", len(locs))
	}
}
