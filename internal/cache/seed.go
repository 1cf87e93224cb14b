package cache

import "github.com/tillware/tillsync/internal/record"

// SeedLocations returns the built-in fallback location set, used only to
// keep a brand-new terminal functional before its first successful sync.
// Returned as a fresh slice so callers can stamp timestamps without
// mutating shared state.
func SeedLocations() []record.Location {
	return []record.Location{
		{
			ID:       "retail-001",
			Name:     "Main Street Store",
			Kind:     record.KindRetail,
			Address:  "123 Main Street, City, State",
			IsActive: true,
		},
		{
			ID:       "retail-002",
			Name:     "Downtown Branch",
			Kind:     record.KindRetail,
			Address:  "456 Downtown Ave, City, State",
			IsActive: true,
		},
		{
			ID:       "restaurant-001",
			Name:     "Central Restaurant",
			Kind:     record.KindRestaurant,
			Address:  "789 Central Blvd, City, State",
			IsActive: true,
		},
		{
			ID:       "restaurant-002",
			Name:     "Garden Cafe",
			Kind:     record.KindRestaurant,
			Address:  "321 Garden St, City, State",
			IsActive: true,
		},
	}
}
