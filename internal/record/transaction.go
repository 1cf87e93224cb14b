package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes retail sales from restaurant orders.
type TransactionKind string

const (
	// KindRetailSale is a completed retail checkout.
	KindRetailSale TransactionKind = "retail_sale"
	// KindRestaurantOrder is a completed restaurant order for a table.
	KindRestaurantOrder TransactionKind = "restaurant_order"
)

// LineItem is one priced line of a transaction.
type LineItem struct {
	ItemID    string          `json:"itemId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// Subtotal returns UnitPrice * Quantity for this line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// Transaction is a completed sale or order.
//
// INVARIANTS:
//   - ID is assigned at creation and never reassigned
//   - Synced starts false and is monotonic (false -> true, never reverts)
//   - Total equals the sum of line subtotals at creation time (the sync
//     package recomputes it; caller-supplied totals are not trusted)
//
// Transactions are created by the POS checkout, mutated only by the sync
// engine (which flips Synced), and never deleted by the core.
type Transaction struct {
	ID         string          `json:"id"`
	LocationID string          `json:"locationId"`
	Kind       TransactionKind `json:"kind"`
	LineItems  []LineItem      `json:"lineItems"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
	Synced     bool            `json:"synced"`
	TableRef   string          `json:"tableRef,omitempty"`
}

// ComputeTotal sums UnitPrice*Quantity over all line items using decimal
// arithmetic. The result is what Total must equal for the transaction to be
// accepted by the sync engine.
func (t Transaction) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range t.LineItems {
		total = total.Add(li.Subtotal())
	}
	return total
}

// TransactionIDGenerator generates client-side transaction IDs.
// Implemented by UUIDv7Generator (production) and testutil.FixedIDGenerator.
type TransactionIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 transaction IDs.
//
// UUIDv7 embeds a creation timestamp in the most significant bits, so IDs
// sort by creation time and serve as the upstream's natural dedup key.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
