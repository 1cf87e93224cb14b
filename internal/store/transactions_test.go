package store

import (
	"context"
	"testing"
	"time"

	"github.com/tillware/tillsync/internal/record"
)

func TestAddTransaction_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx := record.Transaction{
		ID:         "txn-1",
		LocationID: "restaurant-001",
		Kind:       record.KindRestaurantOrder,
		LineItems: []record.LineItem{
			{ItemID: "soup", UnitPrice: mustDecimal("4.75"), Quantity: 2, Notes: "no croutons"},
			{ItemID: "steak", UnitPrice: mustDecimal("22.00"), Quantity: 1},
		},
		Total:     mustDecimal("31.50"),
		CreatedAt: time.Date(2024, 6, 1, 19, 15, 0, 0, time.UTC),
		TableRef:  "table-7",
	}
	if err := s.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction() failed: %v", err)
	}

	got, err := s.GetTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatalf("GetTransaction() failed: %v", err)
	}
	if got.LocationID != tx.LocationID || got.Kind != tx.Kind || got.TableRef != tx.TableRef {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.Synced {
		t.Error("freshly stored transaction must have synced=false")
	}
	if !got.Total.Equal(tx.Total) {
		t.Errorf("total mismatch: got %s, want %s", got.Total, tx.Total)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.LineItems))
	}
	if got.LineItems[0].Notes != "no croutons" {
		t.Errorf("line item notes lost: %+v", got.LineItems[0])
	}
	if !got.LineItems[0].UnitPrice.Equal(mustDecimal("4.75")) {
		t.Errorf("unit price precision lost: got %s", got.LineItems[0].UnitPrice)
	}
	if !got.CreatedAt.Equal(tx.CreatedAt) {
		t.Errorf("createdAt mismatch: got %v, want %v", got.CreatedAt, tx.CreatedAt)
	}
}

func TestAddTransaction_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx := testTransaction("txn-1", "retail-001", "10")
	if err := s.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("first AddTransaction() failed: %v", err)
	}

	err := s.AddTransaction(ctx, tx)
	if !IsDuplicateKey(err) {
		t.Errorf("expected ErrDuplicateKey on id collision, got %v", err)
	}
}

func TestGetTransaction_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetTransaction(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsByLocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, tx := range []record.Transaction{
		testTransaction("txn-1", "retail-001", "10"),
		testTransaction("txn-2", "retail-001", "25.50"),
		testTransaction("txn-3", "retail-002", "7.25"),
	} {
		if err := s.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("AddTransaction(%s) failed: %v", tx.ID, err)
		}
	}

	txs, err := s.ListTransactionsByLocation(ctx, "retail-001")
	if err != nil {
		t.Fatalf("ListTransactionsByLocation() failed: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("expected 2 transactions for retail-001, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.LocationID != "retail-001" {
			t.Errorf("location index returned transaction for %s", tx.LocationID)
		}
	}
}

func TestListUnsyncedTransactions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"txn-1", "txn-2", "txn-3"} {
		if err := s.AddTransaction(ctx, testTransaction(id, "retail-001", "10")); err != nil {
			t.Fatalf("AddTransaction(%s) failed: %v", id, err)
		}
	}
	if err := s.MarkTransactionSynced(ctx, "txn-2"); err != nil {
		t.Fatalf("MarkTransactionSynced() failed: %v", err)
	}

	unsynced, err := s.ListUnsyncedTransactions(ctx)
	if err != nil {
		t.Fatalf("ListUnsyncedTransactions() failed: %v", err)
	}
	if len(unsynced) != 2 {
		t.Fatalf("expected 2 unsynced transactions, got %d", len(unsynced))
	}
	for _, tx := range unsynced {
		if tx.ID == "txn-2" {
			t.Error("synced transaction returned by unsynced index")
		}
	}
}

func TestMarkTransactionSynced(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddTransaction(ctx, testTransaction("txn-1", "retail-001", "10")); err != nil {
		t.Fatalf("AddTransaction() failed: %v", err)
	}

	if err := s.MarkTransactionSynced(ctx, "txn-1"); err != nil {
		t.Fatalf("MarkTransactionSynced() failed: %v", err)
	}

	got, err := s.GetTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatalf("GetTransaction() failed: %v", err)
	}
	if !got.Synced {
		t.Error("transaction not marked synced")
	}

	// Marking again is a no-op, not an error (flag is monotonic).
	if err := s.MarkTransactionSynced(ctx, "txn-1"); err != nil {
		t.Errorf("second MarkTransactionSynced() failed: %v", err)
	}
}

func TestMarkTransactionSynced_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.MarkTransactionSynced(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactions_OrderedByCreatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"txn-c", "txn-a", "txn-b"} {
		tx := testTransaction(id, "retail-001", "10")
		// Insert out of chronological order
		tx.CreatedAt = base.Add(time.Duration(2-i) * time.Minute)
		if err := s.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("AddTransaction(%s) failed: %v", id, err)
		}
	}

	txs, err := s.ListTransactionsByLocation(ctx, "retail-001")
	if err != nil {
		t.Fatalf("ListTransactionsByLocation() failed: %v", err)
	}
	want := []string{"txn-b", "txn-a", "txn-c"}
	for i, tx := range txs {
		if tx.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, tx.ID, want[i])
		}
	}
}
