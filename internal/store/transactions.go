package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tillware/tillsync/internal/record"
)

// AddTransaction inserts a transaction record.
// Returns ErrDuplicateKey if a transaction with the same id already exists -
// transaction ids are generated client-side and a collision is a bug worth
// failing loudly on, not papering over.
func (s *Store) AddTransaction(ctx context.Context, tx record.Transaction) error {
	itemsJSON, err := marshalLineItems(tx.LineItems)
	if err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions
		(id, location_id, kind, line_items, total, created_at, synced, table_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tx.ID,
		tx.LocationID,
		string(tx.Kind),
		itemsJSON,
		tx.Total.String(),
		marshalTime(tx.CreatedAt),
		boolToInt(tx.Synced),
		tx.TableRef,
	)
	if err != nil {
		return wrapWriteErr("add transaction", err)
	}

	return nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns ErrNotFound if no such transaction exists.
func (s *Store) GetTransaction(ctx context.Context, id string) (record.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, kind, line_items, total, created_at, synced, table_ref
		FROM transactions
		WHERE id = ?
	`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		return record.Transaction{}, wrapReadErr("get transaction", err)
	}
	return tx, nil
}

// ListTransactionsByLocation returns all transactions recorded for a
// location via the location_id index, ordered by created_at ascending.
func (s *Store) ListTransactionsByLocation(ctx context.Context, locationID string) ([]record.Transaction, error) {
	return s.listTransactionsWhere(ctx, "WHERE location_id = ?", []any{locationID})
}

// ListUnsyncedTransactions returns all transactions not yet acknowledged by
// the upstream, via the synced index, ordered by created_at ascending.
//
// The result is a read snapshot, not a lock: a transaction marked synced
// after enumeration is simply excluded from the next pass.
func (s *Store) ListUnsyncedTransactions(ctx context.Context) ([]record.Transaction, error) {
	return s.listTransactionsWhere(ctx, "WHERE synced = 0", nil)
}

// MarkTransactionSynced flips a transaction's synced flag and persists it.
// The flag is monotonic: this is the only mutation the core ever applies to
// a stored transaction, and there is no way to flip it back.
// Returns ErrNotFound if no such transaction exists.
func (s *Store) MarkTransactionSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET synced = 1 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark transaction synced: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark transaction synced: %w: id %q", ErrNotFound, id)
	}

	return nil
}

func (s *Store) listTransactionsWhere(ctx context.Context, where string, args []any) ([]record.Transaction, error) {
	query := `
		SELECT id, location_id, kind, line_items, total, created_at, synced, table_ref
		FROM transactions ` + where + `
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []record.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	// Return empty slice instead of nil
	if txs == nil {
		txs = []record.Transaction{}
	}

	return txs, nil
}

func scanTransaction(row rowScanner) (record.Transaction, error) {
	var (
		tx        record.Transaction
		kind      string
		itemsJSON string
		total     string
		createdAt string
		synced    int
	)
	if err := row.Scan(&tx.ID, &tx.LocationID, &kind, &itemsJSON, &total, &createdAt, &synced, &tx.TableRef); err != nil {
		return record.Transaction{}, err
	}
	tx.Kind = record.TransactionKind(kind)
	tx.Synced = synced != 0

	items, err := unmarshalLineItems(itemsJSON)
	if err != nil {
		return record.Transaction{}, err
	}
	tx.LineItems = items

	tx.Total, err = decimal.NewFromString(total)
	if err != nil {
		return record.Transaction{}, fmt.Errorf("parse total %q: %w", total, err)
	}

	tx.CreatedAt, err = unmarshalTime(createdAt)
	if err != nil {
		return record.Transaction{}, err
	}

	return tx, nil
}
