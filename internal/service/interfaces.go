package service

import (
	"context"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/invoice"
)

// TimeTracker is the slice of the Tick client the services use
type TimeTracker interface {
	ListOpenEntries(ctx context.Context, projectID, startDate, endDate string) ([]domain.TimeEntry, error)
	SetBilledStatus(ctx context.Context, entryID int64, billed bool) error
}

// InvoiceAPI is the slice of the FreshBooks client the services use
type InvoiceAPI interface {
	GetInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, payload domain.InvoicePayload) (*domain.Invoice, error)
}

// BillingResolver matches Tick names to FreshBooks billing details
type BillingResolver interface {
	ResolveBilling(ctx context.Context, clientName, projectName string) (domain.BillingDetails, error)
}

// PayloadBuilder assembles invoice payloads from billing data and entries
type PayloadBuilder interface {
	BuildSummary(ctx context.Context, data invoice.ClientData, entries []domain.TimeEntry) domain.InvoicePayload
	BuildDetailed(ctx context.Context, data invoice.ClientData, entries []domain.TimeEntry) domain.InvoicePayload
}
