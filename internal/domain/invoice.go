package domain

import "errors"

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusViewed  InvoiceStatus = "viewed"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusDeleted InvoiceStatus = "deleted"
)

// Invoice is the remote FreshBooks invoice. Only the fields the bridge
// consumes are kept.
type Invoice struct {
	ID      int64
	Status  InvoiceStatus
	AuthURL string
}

// IsDraft reports whether the invoice has not been finalized remotely
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// LineItem is a single invoice line. Constructed once, never mutated.
type LineItem struct {
	Description string
	UnitCost    float64
	Quantity    float64
}

// InvoicePayload is the invoice.create request body. Built once per
// create call; always a draft.
type InvoicePayload struct {
	ClientID     int64
	Status       InvoiceStatus
	Organization string
	Lines        []LineItem
}

// Validate returns an error if the payload is invalid
func (p *InvoicePayload) Validate() error {
	if p.ClientID <= 0 {
		return errors.New("client ID is required")
	}
	if len(p.Lines) == 0 {
		return errors.New("invoice must have at least one line")
	}
	return nil
}
