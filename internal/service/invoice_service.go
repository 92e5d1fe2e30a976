package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/invoice"
	"github.com/mend/tickbridge/internal/repository"
)

var ErrNoOpenEntries = errors.New("no open entries to invoice")

// InvoiceType selects summary (one line) or detailed (line per entry)
// invoice construction.
type InvoiceType string

const (
	InvoiceTypeSummary  InvoiceType = "summary"
	InvoiceTypeDetailed InvoiceType = "detailed"
)

// CreateInvoiceRequest names the Tick project to invoice. Dates are
// optional m/d/Y bounds; empty means the default lookback window.
type CreateInvoiceRequest struct {
	ClientName  string
	ProjectName string
	ProjectID   string // Tick project id
	StartDate   string
	EndDate     string
	Type        InvoiceType
}

// CreateInvoiceResult reports what happened. When Matched is false no
// invoice was created: the Tick client/project has no FreshBooks
// counterpart, which is a normal outcome the caller explains to the
// user, not an error.
type CreateInvoiceResult struct {
	Matched    bool
	Billing    domain.BillingDetails
	Invoice    *domain.Invoice
	EntryCount int
	TotalHours float64
}

// InvoiceService converts open Tick entries into FreshBooks draft
// invoices and records the entry-to-invoice links.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error)
}

type invoiceService struct {
	tracker  TimeTracker
	invoices InvoiceAPI
	resolver BillingResolver
	builder  PayloadBuilder
	joins    repository.JoinRepository
	log      zerolog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tracker TimeTracker,
	invoices InvoiceAPI,
	resolver BillingResolver,
	builder PayloadBuilder,
	joins repository.JoinRepository,
	log zerolog.Logger,
) InvoiceService {
	return &invoiceService{
		tracker:  tracker,
		invoices: invoices,
		resolver: resolver,
		builder:  builder,
		joins:    joins,
		log:      log,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error) {
	entries, err := s.tracker.ListOpenEntries(ctx, req.ProjectID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoOpenEntries
	}
	domain.SortByDate(entries)

	details, err := s.resolver.ResolveBilling(ctx, req.ClientName, req.ProjectName)
	if err != nil {
		return nil, err
	}
	if !details.Found() {
		return &CreateInvoiceResult{Matched: false, Billing: details}, nil
	}

	data := invoice.ClientData{
		ClientID:    details.ClientID,
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		ProjectID:   details.ProjectID,
		ProjectRate: details.Rate,
		BillMethod:  details.Method,
	}

	var payload domain.InvoicePayload
	if req.Type == InvoiceTypeDetailed {
		payload = s.builder.BuildDetailed(ctx, data, entries)
	} else {
		payload = s.builder.BuildSummary(ctx, data, entries)
	}

	created, err := s.invoices.CreateInvoice(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("invoice_id", created.ID).Str("project", req.ProjectName).
		Int("entries", len(entries)).Msg("draft invoice created")

	// record the links first, then flip the remote flags; reconciliation
	// cleans up if marking is interrupted partway
	entryIDs := make([]int64, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}
	if err := s.joins.InsertEntries(ctx, entryIDs, created.ID); err != nil {
		return nil, err
	}
	for _, entryID := range entryIDs {
		if err := s.tracker.SetBilledStatus(ctx, entryID, true); err != nil {
			return nil, err
		}
	}

	// re-fetch for the authenticated view URL
	full, err := s.invoices.GetInvoice(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	return &CreateInvoiceResult{
		Matched:    true,
		Billing:    details,
		Invoice:    full,
		EntryCount: len(entries),
		TotalHours: domain.TotalHours(entries),
	}, nil
}
