package store

import (
	"context"
	"fmt"

	"github.com/tillware/tillsync/internal/record"
)

// PutSettings inserts or replaces the settings record for a location.
// Replacement is wholesale: the catalog cache does read-merge-write and
// hands the fully merged record here. Last write wins.
func (s *Store) PutSettings(ctx context.Context, set record.Settings) error {
	payloadJSON, err := marshalPayload(set.Payload)
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings
		(id, location_id, payload, last_updated)
		VALUES (?, ?, ?, ?)
	`,
		set.ID,
		set.LocationID,
		payloadJSON,
		marshalTime(set.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}

	return nil
}

// GetSettings retrieves the settings record for a location by its derived
// primary key ("settings-" + locationID).
// Returns ErrNotFound if no settings have been stored for the location.
func (s *Store) GetSettings(ctx context.Context, locationID string) (record.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, payload, last_updated
		FROM settings
		WHERE id = ?
	`, record.SettingsID(locationID))

	set, err := scanSettings(row)
	if err != nil {
		return record.Settings{}, wrapReadErr("get settings", err)
	}
	return set, nil
}

// ListSettingsByLocation returns all settings records for a location via the
// location_id index. In the current schema each location has at most one
// record; the index lookup exists so housekeeping and diagnostics don't need
// to know the key derivation.
func (s *Store) ListSettingsByLocation(ctx context.Context, locationID string) ([]record.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, payload, last_updated
		FROM settings
		WHERE location_id = ?
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var sets []record.Settings
	for rows.Next() {
		set, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}

	if sets == nil {
		sets = []record.Settings{}
	}

	return sets, nil
}

func scanSettings(row rowScanner) (record.Settings, error) {
	var (
		set         record.Settings
		payloadJSON string
		lastUpdated string
	)
	if err := row.Scan(&set.ID, &set.LocationID, &payloadJSON, &lastUpdated); err != nil {
		return record.Settings{}, err
	}

	payload, err := unmarshalPayload(payloadJSON)
	if err != nil {
		return record.Settings{}, err
	}
	set.Payload = payload

	set.LastUpdated, err = unmarshalTime(lastUpdated)
	if err != nil {
		return record.Settings{}, err
	}

	return set, nil
}
