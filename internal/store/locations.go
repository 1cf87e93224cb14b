package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tillware/tillsync/internal/record"
)

// PutLocation inserts or replaces a single location.
func (s *Store) PutLocation(ctx context.Context, loc record.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO locations
		(id, name, kind, address, is_active, last_synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		loc.ID,
		loc.Name,
		string(loc.Kind),
		loc.Address,
		boolToInt(loc.IsActive),
		marshalNullableTime(loc.LastSyncedAt),
	)
	if err != nil {
		return fmt.Errorf("put location: %w", err)
	}
	return nil
}

// ReplaceLocations clears the locations collection and inserts the given set
// in a single SQL transaction. This is the only bulk mutation the location
// cache performs: the set is replaced wholesale on each successful refresh,
// never partially merged.
func (s *Store) ReplaceLocations(ctx context.Context, locs []record.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace locations: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("replace locations: clear: %w", err)
	}

	for _, loc := range locs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO locations
			(id, name, kind, address, is_active, last_synced_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			loc.ID,
			loc.Name,
			string(loc.Kind),
			loc.Address,
			boolToInt(loc.IsActive),
			marshalNullableTime(loc.LastSyncedAt),
		)
		if err != nil {
			return wrapWriteErr("replace locations: insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace locations: commit: %w", err)
	}
	return nil
}

// GetLocation retrieves a single location by ID.
// Returns ErrNotFound if no such location exists.
func (s *Store) GetLocation(ctx context.Context, id string) (record.Location, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, address, is_active, last_synced_at
		FROM locations
		WHERE id = ?
	`, id)

	loc, err := scanLocation(row)
	if err != nil {
		return record.Location{}, wrapReadErr("get location", err)
	}
	return loc, nil
}

// ListLocations returns every stored location.
// Returns an empty slice (not nil) when the collection is empty.
func (s *Store) ListLocations(ctx context.Context) ([]record.Location, error) {
	return s.listLocationsWhere(ctx, "", nil)
}

// ListLocationsByKind returns all locations of the given kind via the kind
// index. Ordering is unspecified; callers sort if they need to.
func (s *Store) ListLocationsByKind(ctx context.Context, kind record.LocationKind) ([]record.Location, error) {
	return s.listLocationsWhere(ctx, "WHERE kind = ?", []any{string(kind)})
}

// ListActiveLocations returns all locations whose is_active flag is set,
// via the is_active index.
func (s *Store) ListActiveLocations(ctx context.Context) ([]record.Location, error) {
	return s.listLocationsWhere(ctx, "WHERE is_active = 1", nil)
}

// ClearLocations removes every location record.
func (s *Store) ClearLocations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	return nil
}

func (s *Store) listLocationsWhere(ctx context.Context, where string, args []any) ([]record.Location, error) {
	query := `
		SELECT id, name, kind, address, is_active, last_synced_at
		FROM locations ` + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locs []record.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	// Return empty slice instead of nil
	if locs == nil {
		locs = []record.Location{}
	}

	return locs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (record.Location, error) {
	var (
		loc        record.Location
		kind       string
		isActive   int
		lastSynced sql.NullString
	)
	if err := row.Scan(&loc.ID, &loc.Name, &kind, &loc.Address, &isActive, &lastSynced); err != nil {
		return record.Location{}, err
	}
	loc.Kind = record.LocationKind(kind)
	loc.IsActive = isActive != 0

	ts, err := unmarshalNullableTime(lastSynced)
	if err != nil {
		return record.Location{}, err
	}
	loc.LastSyncedAt = ts

	return loc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
