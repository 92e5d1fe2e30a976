package domain

// BillingMethod is the FreshBooks project billing policy that decides how
// a line item's unit cost is computed.
type BillingMethod string

const (
	BillingFlatRate    BillingMethod = "flat-rate"
	BillingTaskRate    BillingMethod = "task-rate"
	BillingProjectRate BillingMethod = "project-rate"
	BillingStaffRate   BillingMethod = "staff-rate"

	// BillingNoProjectFound is the sentinel method returned when a Tick
	// client/project pair has no FreshBooks counterpart. It is a valid
	// resolution result, not an error.
	BillingNoProjectFound BillingMethod = "no-project-found"
)

// BillingDetails is the result of matching a Tick client/project against
// FreshBooks. ClientID is 0 when no client matched.
type BillingDetails struct {
	Method    BillingMethod
	Rate      float64
	ClientID  int64
	ProjectID int64
}

// Found reports whether the resolution matched a FreshBooks project
func (d BillingDetails) Found() bool {
	return d.Method != BillingNoProjectFound
}

// NoProjectDetails returns the explicit no-match sentinel
func NoProjectDetails() BillingDetails {
	return BillingDetails{Method: BillingNoProjectFound}
}

// Client is a FreshBooks client record, read-only
type Client struct {
	ID           int64
	Organization string
}

// Project is a FreshBooks project record, read-only
type Project struct {
	ID         int64
	Name       string
	BillMethod BillingMethod
	Rate       float64
}

// Task is a FreshBooks task record with its hourly rate
type Task struct {
	ID   int64
	Name string
	Rate float64
}

// Item is a FreshBooks invoice item with its unit cost. Item names are
// limited to 15 characters by FreshBooks.
type Item struct {
	ID       int64
	Name     string
	UnitCost float64
}
