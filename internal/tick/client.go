// Package tick is the client for the Tick time-tracking API.
//
// Requests are form-encoded POSTs to {base}/api/{method} with the account
// credentials merged into the query string. Tick reports success either as
// HTTP 200 with an application/xml body, or as HTTP 200 with a text/html
// single-space body, which stands for an empty document.
package tick

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/remote"
	"github.com/mend/tickbridge/internal/xmlcodec"
)

const (
	requestTimeout = 15 * time.Second

	// dateLayout is the m/d/Y format Tick expects for date parameters
	dateLayout = "01/02/2006"

	// lookbackYears bounds the default open-entries window
	lookbackYears = 5
)

// Credentials identify a Tick account. They are supplied per client and
// never persisted here.
type Credentials struct {
	BaseURL  string // e.g. https://acme.tickspot.com
	Email    string
	Password string
}

// Client issues authenticated requests to the Tick API
type Client struct {
	creds Credentials
	http  *http.Client

	// LenientParse makes malformed XML responses read as empty documents
	// instead of failing. Off by default; it masks protocol errors.
	LenientParse bool

	// now is stubbed in tests to pin the lookback window
	now func() time.Time
}

// New creates a Tick client for the given credentials
func New(creds Credentials) *Client {
	return &Client{
		creds: creds,
		http:  &http.Client{Timeout: requestTimeout},
		now:   time.Now,
	}
}

// Login checks the credentials by issuing an unconstrained clients
// listing. It reports only success or failure; a network fault and a bad
// password both read as false.
func (c *Client) Login(ctx context.Context) bool {
	_, err := c.request(ctx, "clients", url.Values{})
	return err == nil
}

// ListOpenEntries returns billable, unbilled entries. With an empty date
// range it looks back five years; dates are m/d/Y strings validated by
// the caller. projectID narrows the listing when non-empty.
func (c *Client) ListOpenEntries(ctx context.Context, projectID, startDate, endDate string) ([]domain.TimeEntry, error) {
	params := url.Values{}
	params.Set("entry_billable", "true")
	params.Set("billed", "false")

	if startDate == "" {
		params.Set("updated_at", c.now().AddDate(-lookbackYears, 0, 0).Format(dateLayout))
	} else {
		params.Set("start_date", startDate)
		params.Set("end_date", endDate)
	}
	if projectID != "" {
		params.Set("project_id", projectID)
	}

	root, err := c.request(ctx, "entries", params)
	if err != nil {
		return nil, err
	}
	return parseEntries(root), nil
}

// SetBilledStatus flips an entry's billed flag. Idempotent; a 404 means
// the entry no longer exists in Tick and is left for the caller to
// interpret (reconciliation treats it as stale data).
func (c *Client) SetBilledStatus(ctx context.Context, entryID int64, billed bool) error {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(entryID, 10))
	params.Set("billed", strconv.FormatBool(billed))

	_, err := c.request(ctx, "update_entry", params)
	return err
}

func (c *Client) request(ctx context.Context, method string, params url.Values) (*xmlcodec.Node, error) {
	params.Set("email", c.creds.Email)
	params.Set("password", c.creds.Password)

	endpoint := strings.TrimSuffix(c.creds.BaseURL, "/") + "/api/" + method + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, remote.NewError(0, "invalid Tick request: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, remote.NewError(0, "unable to reach Tick: %v; please check your Tick settings and try again", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.NewError(0, "reading Tick response: %v", err)
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case resp.StatusCode == http.StatusOK && strings.Contains(contentType, "application/xml"):
		root, err := xmlcodec.Decode(string(body), c.LenientParse)
		if err != nil {
			return nil, remote.NewError(0, "unexpected response from Tick: %v", err)
		}
		return root, nil
	case resp.StatusCode == http.StatusOK && strings.Contains(contentType, "text/html") && string(body) == " ":
		// Tick sends a single space for operations with no payload
		return &xmlcodec.Node{}, nil
	default:
		return nil, remote.NewError(resp.StatusCode, "unexpected response from Tick (HTTP %d)", resp.StatusCode)
	}
}

func parseEntries(root *xmlcodec.Node) []domain.TimeEntry {
	list := root
	if root.Name != "entries" {
		list = root.Child("entries")
	}

	var entries []domain.TimeEntry
	for _, node := range list.Each("entry") {
		entries = append(entries, domain.TimeEntry{
			ID:          node.Child("id").Int(),
			Date:        node.Child("date").String(),
			ClientName:  node.Child("client_name").String(),
			ProjectName: node.Child("project_name").String(),
			ProjectID:   node.Child("project_id").String(),
			TaskName:    node.Child("task_name").String(),
			TaskID:      node.Child("task_id").Int(),
			Notes:       node.Child("notes").String(),
			Hours:       node.Child("hours").Float(),
			Billed:      node.Child("billed").String() == "true",
		})
	}
	return entries
}
