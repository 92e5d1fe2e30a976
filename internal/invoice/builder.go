// Package invoice assembles FreshBooks invoice payloads from resolved
// billing data and Tick entry line items.
package invoice

import (
	"context"
	"fmt"

	"github.com/mend/tickbridge/internal/domain"
)

// ClientData carries the resolved billing context an invoice is built
// from: the matched FreshBooks client/project and its billing method.
type ClientData struct {
	ClientID    int64
	ClientName  string
	ProjectName string
	ProjectID   int64
	ProjectRate float64
	BillMethod  domain.BillingMethod
}

// RateResolver prices a single line item. Implementations fail open to
// zero rather than erroring, so building a payload cannot fail.
type RateResolver interface {
	UnitCost(ctx context.Context, method domain.BillingMethod, taskName string, projectRate float64, projectID int64) float64
}

// Builder constructs invoice payloads
type Builder struct {
	rates RateResolver
}

// NewBuilder creates a Builder that prices lines with the given resolver
func NewBuilder(rates RateResolver) *Builder {
	return &Builder{rates: rates}
}

// BuildSummary builds a one-line invoice. For flat-rate projects the
// line is the flat rate itself; otherwise it is the sum of hours times
// unit cost across all entries.
func (b *Builder) BuildSummary(ctx context.Context, data ClientData, entries []domain.TimeEntry) domain.InvoicePayload {
	payload := newPayload(data)

	if data.BillMethod == domain.BillingFlatRate {
		payload.Lines = append(payload.Lines, flatRateLine(data))
		return payload
	}

	var total float64
	for _, entry := range entries {
		cost := b.rates.UnitCost(ctx, data.BillMethod, entry.TaskName, data.ProjectRate, data.ProjectID)
		total += entry.Hours * cost
	}
	payload.Lines = append(payload.Lines, domain.LineItem{
		Description: fmt.Sprintf("[%s]", data.ProjectName),
		UnitCost:    total,
		Quantity:    1,
	})
	return payload
}

// BuildDetailed builds one line per entry, priced by billing method,
// with quantity equal to the entry's hours. For flat-rate projects a
// flat-rate line is appended after the itemized lines; unlike summary
// mode it does not replace them. That asymmetry is long-standing
// behavior and callers must not assume flat rate means a single line.
func (b *Builder) BuildDetailed(ctx context.Context, data ClientData, entries []domain.TimeEntry) domain.InvoicePayload {
	payload := newPayload(data)

	for _, entry := range entries {
		description := fmt.Sprintf("[%s]  ", data.ProjectName)
		if entry.TaskName != domain.NoTaskSelected {
			description += entry.TaskName
		}
		payload.Lines = append(payload.Lines, domain.LineItem{
			Description: description,
			UnitCost:    b.rates.UnitCost(ctx, data.BillMethod, entry.TaskName, data.ProjectRate, data.ProjectID),
			Quantity:    entry.Hours,
		})
	}

	if data.BillMethod == domain.BillingFlatRate {
		payload.Lines = append(payload.Lines, flatRateLine(data))
	}
	return payload
}

func newPayload(data ClientData) domain.InvoicePayload {
	return domain.InvoicePayload{
		ClientID:     data.ClientID,
		Status:       domain.InvoiceStatusDraft,
		Organization: data.ClientName,
	}
}

func flatRateLine(data ClientData) domain.LineItem {
	return domain.LineItem{
		Description: fmt.Sprintf("[%s] Flat Rate", data.ProjectName),
		UnitCost:    data.ProjectRate,
		Quantity:    1,
	}
}
