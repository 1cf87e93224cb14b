package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors for store operations.
//
// Error policy (matched by callers with errors.Is):
//   - ErrDuplicateKey: an add collided on a primary key. Surfaced to the
//     caller; the sync engine treats a duplicate transaction id as a bug.
//   - ErrNotFound: a keyed read matched no record. Surfaced; caches decide
//     whether absence is a fallback case or a legitimate empty state.
//   - ErrStoreUnavailable: the device database is not initialized or not
//     accessible. Fatal to the operation and always surfaced.
var (
	ErrDuplicateKey     = errors.New("duplicate primary key")
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsDuplicateKey reports whether err is a primary key collision.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// wrapWriteErr maps driver-level errors onto the store's sentinels.
// Primary key and unique constraint violations become ErrDuplicateKey.
func wrapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapReadErr maps driver-level errors onto the store's sentinels.
// sql.ErrNoRows becomes ErrNotFound.
func wrapReadErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
