package repository

import (
	"context"

	"github.com/mend/tickbridge/internal/domain"
)

// SettingsRepository manages the single stored API settings record
type SettingsRepository interface {
	// Get returns the stored settings, or nil when none have been saved
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// JoinRepository manages the entry-to-invoice join records that tie
// billed Tick entries to the FreshBooks invoices that billed them.
type JoinRepository interface {
	// InsertEntries records that the given entries were billed on an invoice
	InsertEntries(ctx context.Context, entryIDs []int64, invoiceID int64) error
	// InvoiceIDs returns the distinct invoice ids present in the store
	InvoiceIDs(ctx context.Context) ([]int64, error)
	// EntryIDs returns the entries linked to one invoice
	EntryIDs(ctx context.Context, invoiceID int64) ([]int64, error)
	// DeleteEntry removes the join record for one entry
	DeleteEntry(ctx context.Context, entryID int64) error
}
