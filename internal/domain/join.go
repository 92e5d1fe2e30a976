package domain

// JoinRecord links a billed Tick entry to the FreshBooks invoice that
// billed it. Records exist only while the invoice is a remote draft;
// reconciliation removes them once the invoice is finalized or deleted.
type JoinRecord struct {
	EntryID   int64
	InvoiceID int64
}
