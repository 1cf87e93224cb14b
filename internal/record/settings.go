package record

import "time"

// SettingsIDPrefix is prepended to a location ID to form the settings
// record's primary key.
const SettingsIDPrefix = "settings-"

// SettingsID returns the primary key of the settings record for a location.
func SettingsID(locationID string) string {
	return SettingsIDPrefix + locationID
}

// Settings is the per-location opaque settings record.
//
// Payload is deliberately untyped: the server owns its shape (menu items,
// tables, retail items). The core only shallow-merges keys on save and never
// indexes inside the payload. Replacement is wholesale read-merge-write.
type Settings struct {
	ID          string         `json:"id"`
	LocationID  string         `json:"locationId"`
	Payload     map[string]any `json:"payload"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// Catalog key conventions used by the POS forms. The core treats the payload
// as opaque; these constants only exist so the caches and CLI agree on names.
const (
	CatalogKeyMenuItems   = "menuItems"
	CatalogKeyTables      = "tables"
	CatalogKeyRetailItems = "retailItems"
)

// Catalog is a read view over a settings payload.
// An empty catalog is a legitimate terminal state, not an error.
type Catalog struct {
	LocationID string         `json:"locationId"`
	Payload    map[string]any `json:"payload"`
}

// IsEmpty reports whether the catalog carries no payload keys.
func (c Catalog) IsEmpty() bool {
	return len(c.Payload) == 0
}

// Get returns the payload value for a key, or nil if absent.
func (c Catalog) Get(key string) any {
	if c.Payload == nil {
		return nil
	}
	return c.Payload[key]
}
