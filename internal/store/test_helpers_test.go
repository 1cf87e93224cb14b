package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillware/tillsync/internal/record"
)

// openTestStore creates a store in a temp directory, closed on test cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "terminal.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testLocation(id string, kind record.LocationKind) record.Location {
	return record.Location{
		ID:       id,
		Name:     "Test " + id,
		Kind:     kind,
		Address:  "1 Test Street",
		IsActive: true,
	}
}

func testTransaction(id, locationID, total string) record.Transaction {
	return record.Transaction{
		ID:         id,
		LocationID: locationID,
		Kind:       record.KindRetailSale,
		LineItems: []record.LineItem{
			{ItemID: "item-1", UnitPrice: mustDecimal(total), Quantity: 1},
		},
		Total:     mustDecimal(total),
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
