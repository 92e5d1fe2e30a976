package repository

import (
	"context"
	"fmt"

	"github.com/mend/tickbridge/internal/db"
)

// JoinRepo is a SQLite implementation of JoinRepository
type JoinRepo struct {
	db *db.DB
}

// NewJoinRepo creates a new JoinRepo
func NewJoinRepo(database *db.DB) *JoinRepo {
	return &JoinRepo{db: database}
}

// InsertEntries records the entry-to-invoice links for a freshly
// created invoice in one transaction.
func (r *JoinRepo) InsertEntries(ctx context.Context, entryIDs []int64, invoiceID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoice_entries (ts_entry_id, fb_invoice_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(ts_entry_id) DO UPDATE SET fb_invoice_id = excluded.fb_invoice_id
	`
	for _, entryID := range entryIDs {
		if _, err := tx.ExecContext(ctx, query, entryID, invoiceID, formatTime()); err != nil {
			return fmt.Errorf("failed to insert join record for entry %d: %w", entryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit join records: %w", err)
	}
	return nil
}

// InvoiceIDs returns the distinct invoice ids with live join records
func (r *JoinRepo) InvoiceIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT fb_invoice_id FROM invoice_entries ORDER BY fb_invoice_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan invoice id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EntryIDs returns the entries linked to one invoice
func (r *JoinRepo) EntryIDs(ctx context.Context, invoiceID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ts_entry_id FROM invoice_entries WHERE fb_invoice_id = ? ORDER BY ts_entry_id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for invoice %d: %w", invoiceID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entry id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteEntry removes the join record for one entry. Deleting a record
// that no longer exists is not an error.
func (r *JoinRepo) DeleteEntry(ctx context.Context, entryID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invoice_entries WHERE ts_entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to delete join record for entry %d: %w", entryID, err)
	}
	return nil
}
