package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/remote"
	"github.com/mend/tickbridge/internal/repository"
)

// ReconcileService keeps local join records and remote billed flags in
// sync with what actually happened to each invoice in FreshBooks.
type ReconcileService interface {
	// Reconcile walks every invoice known to the join store and repairs
	// drift. It must run before each fresh open-entries listing so stale
	// billed flags never surface.
	Reconcile(ctx context.Context) error
}

type reconcileService struct {
	joins    repository.JoinRepository
	invoices InvoiceAPI
	tracker  TimeTracker
	log      zerolog.Logger
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(joins repository.JoinRepository, invoices InvoiceAPI, tracker TimeTracker, log zerolog.Logger) ReconcileService {
	return &reconcileService{
		joins:    joins,
		invoices: invoices,
		tracker:  tracker,
		log:      log,
	}
}

func (s *reconcileService) Reconcile(ctx context.Context) error {
	invoiceIDs, err := s.joins.InvoiceIDs(ctx)
	if err != nil {
		return err
	}

	for _, invoiceID := range invoiceIDs {
		status := s.invoiceStatus(ctx, invoiceID)

		entryIDs, err := s.joins.EntryIDs(ctx, invoiceID)
		if err != nil {
			return err
		}

		switch {
		case status == domain.InvoiceStatusDeleted:
			// the invoice is gone: reopen its entries and drop the links
			for _, entryID := range entryIDs {
				if err := s.tracker.SetBilledStatus(ctx, entryID, false); err != nil && !remote.IsNotFound(err) {
					return err
				}
				if err := s.joins.DeleteEntry(ctx, entryID); err != nil {
					return err
				}
			}
			s.log.Info().Int64("invoice_id", invoiceID).Int("entries", len(entryIDs)).
				Msg("invoice deleted remotely; entries reopened")
		case status != domain.InvoiceStatusDraft:
			// sent, paid, etc: the invoice is legitimately finalized, so
			// the links are done tracking; billed flags stay as they are
			for _, entryID := range entryIDs {
				if err := s.joins.DeleteEntry(ctx, entryID); err != nil {
					return err
				}
			}
			s.log.Debug().Int64("invoice_id", invoiceID).Str("status", string(status)).
				Msg("invoice finalized remotely; join records removed")
		}
	}
	return nil
}

// invoiceStatus fetches an invoice's remote status, reading any failure
// (a 404, a FreshBooks fail response, a dead connection) as deleted.
// Failing open here keeps listing working through API flakiness; the
// worst case is reopening entries that a later run re-links.
func (s *reconcileService) invoiceStatus(ctx context.Context, invoiceID int64) domain.InvoiceStatus {
	inv, err := s.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		s.log.Warn().Err(err).Int64("invoice_id", invoiceID).Msg("invoice status check failed; treating as deleted")
		return domain.InvoiceStatusDeleted
	}
	return inv.Status
}
