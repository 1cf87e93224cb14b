package record

import "time"

// LocationKind distinguishes the two POS flavors a location can run.
type LocationKind string

const (
	// KindRetail is a retail storefront (cart of priced items).
	KindRetail LocationKind = "retail"
	// KindRestaurant is a restaurant (table-bound orders from a menu).
	KindRestaurant LocationKind = "restaurant"
)

// ValidLocationKinds defines the allowed location kinds.
var ValidLocationKinds = map[LocationKind]bool{
	KindRetail:     true,
	KindRestaurant: true,
}

// Location is a purchasable POS location.
//
// Locations are owned by the location cache: the whole set is replaced
// wholesale on each successful upstream refresh, never partially merged.
// The transaction flow reads locations but never mutates them.
type Location struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Kind         LocationKind `json:"kind"`
	Address      string       `json:"address"`
	IsActive     bool         `json:"isActive"`
	LastSyncedAt *time.Time   `json:"lastSyncedAt,omitempty"`
}
