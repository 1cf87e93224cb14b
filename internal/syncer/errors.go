package syncer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalMismatchError reports a transaction whose claimed total does not
// equal the sum of its line items.
//
// Caller-supplied totals are recomputed, never trusted: a checkout form
// with a rounding bug must be rejected at the queue boundary, not have its
// bad arithmetic persisted into the ledger.
type TotalMismatchError struct {
	TransactionID string
	Claimed       decimal.Decimal
	Computed      decimal.Decimal
}

// Error implements the error interface.
func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("invalid total for transaction %s: claimed %s, line items sum to %s",
		e.TransactionID, e.Claimed, e.Computed)
}

// IsTotalMismatch returns true if the error is a total validation failure.
// Uses errors.As to handle wrapped errors.
func IsTotalMismatch(err error) bool {
	var tm *TotalMismatchError
	return errors.As(err, &tm)
}

// ErrNoLineItems is returned when a transaction carries no line items.
// An empty sale is a caller bug, not a zero-total edge case.
var ErrNoLineItems = errors.New("transaction has no line items")
