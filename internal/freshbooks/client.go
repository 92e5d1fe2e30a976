// Package freshbooks is the client for the FreshBooks classic XML API.
//
// Every call POSTs a full XML envelope (<request method="...">...</request>)
// to a single account endpoint, authenticated with the API token as the
// basic-auth username. FreshBooks reports application errors inside an
// HTTP 200 response whose root status attribute is "fail".
package freshbooks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/remote"
	"github.com/mend/tickbridge/internal/xmlcodec"
)

const (
	requestTimeout = 10 * time.Second

	// PerPage is the page size for every list call; pages are 1-indexed
	// and the total count comes from the first page's response metadata.
	PerPage = 100
)

// Credentials identify a FreshBooks account. The API URL is account
// specific and differs from the account's web address.
type Credentials struct {
	APIURL string
	Token  string
}

// Client issues authenticated XML requests to the FreshBooks API
type Client struct {
	creds Credentials
	http  *http.Client

	// LenientParse makes malformed XML responses read as empty documents
	// instead of failing. Off by default; it masks protocol errors.
	LenientParse bool
}

// New creates a FreshBooks client for the given credentials
func New(creds Credentials) *Client {
	return &Client{
		creds: creds,
		http:  &http.Client{Timeout: requestTimeout},
	}
}

// ListClients returns one page of clients plus the total page count
func (c *Client) ListClients(ctx context.Context, page int) ([]domain.Client, int, error) {
	root, err := c.call(ctx, "client.list", map[string]any{
		"page":     page,
		"per_page": PerPage,
	})
	if err != nil {
		return nil, 0, err
	}

	list := root.Child("clients")
	var clients []domain.Client
	for _, node := range list.Each("client") {
		clients = append(clients, domain.Client{
			ID:           node.Child("client_id").Int(),
			Organization: node.Child("organization").String(),
		})
	}
	return clients, list.AttrInt("pages"), nil
}

// ListProjects returns one page of a client's projects plus the total
// page count.
func (c *Client) ListProjects(ctx context.Context, clientID int64, page int) ([]domain.Project, int, error) {
	root, err := c.call(ctx, "project.list", map[string]any{
		"client_id": clientID,
		"page":      page,
		"per_page":  PerPage,
	})
	if err != nil {
		return nil, 0, err
	}

	list := root.Child("projects")
	var projects []domain.Project
	for _, node := range list.Each("project") {
		projects = append(projects, domain.Project{
			ID:         node.Child("project_id").Int(),
			Name:       node.Child("name").String(),
			BillMethod: domain.BillingMethod(node.Child("bill_method").String()),
			Rate:       node.Child("rate").Float(),
		})
	}
	return projects, list.AttrInt("pages"), nil
}

// ListTasks returns one page of tasks plus the total page count. A zero
// projectID lists tasks across all projects.
func (c *Client) ListTasks(ctx context.Context, projectID int64, page int) ([]domain.Task, int, error) {
	args := map[string]any{
		"page":     page,
		"per_page": PerPage,
	}
	if projectID != 0 {
		args["project_id"] = projectID
	}

	root, err := c.call(ctx, "task.list", args)
	if err != nil {
		return nil, 0, err
	}

	list := root.Child("tasks")
	var tasks []domain.Task
	for _, node := range list.Each("task") {
		tasks = append(tasks, domain.Task{
			ID:   node.Child("task_id").Int(),
			Name: node.Child("name").String(),
			Rate: node.Child("rate").Float(),
		})
	}
	return tasks, list.AttrInt("pages"), nil
}

// ListItems returns one page of invoice items plus the total page count
func (c *Client) ListItems(ctx context.Context, page int) ([]domain.Item, int, error) {
	root, err := c.call(ctx, "item.list", map[string]any{
		"page":     page,
		"per_page": PerPage,
	})
	if err != nil {
		return nil, 0, err
	}

	list := root.Child("items")
	var items []domain.Item
	for _, node := range list.Each("item") {
		items = append(items, domain.Item{
			ID:       node.Child("item_id").Int(),
			Name:     node.Child("name").String(),
			UnitCost: node.Child("unit_cost").Float(),
		})
	}
	return items, list.AttrInt("pages"), nil
}

// GetInvoice fetches a single invoice by id
func (c *Client) GetInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	root, err := c.call(ctx, "invoice.get", map[string]any{
		"invoice_id": invoiceID,
	})
	if err != nil {
		return nil, err
	}
	return parseInvoice(root.Child("invoice")), nil
}

// CreateInvoice submits a draft invoice and returns the created invoice.
// FreshBooks answers the create call with just the new invoice id; the
// full record (auth URL included) comes from a follow-up GetInvoice.
func (c *Client) CreateInvoice(ctx context.Context, payload domain.InvoicePayload) (*domain.Invoice, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	lines := make([]any, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		lines = append(lines, map[string]any{
			"name":        "",
			"description": line.Description,
			"unit_cost":   line.UnitCost,
			"quantity":    line.Quantity,
		})
	}

	root, err := c.call(ctx, "invoice.create", map[string]any{
		"invoice": map[string]any{
			"client_id":    payload.ClientID,
			"status":       string(payload.Status),
			"organization": payload.Organization,
			"lines":        map[string]any{"line": lines},
		},
	})
	if err != nil {
		return nil, err
	}

	return &domain.Invoice{
		ID:     root.Child("invoice_id").Int(),
		Status: payload.Status,
	}, nil
}

func parseInvoice(node *xmlcodec.Node) *domain.Invoice {
	return &domain.Invoice{
		ID:      node.Child("invoice_id").Int(),
		Status:  domain.InvoiceStatus(node.Child("status").String()),
		AuthURL: node.Child("auth_url").String(),
	}
}

func (c *Client) call(ctx context.Context, method string, args map[string]any) (*xmlcodec.Node, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<request method="` + method + `">`)
	b.WriteString(xmlcodec.Encode(args))
	b.WriteString(`</request>`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.APIURL, strings.NewReader(b.String()))
	if err != nil {
		return nil, remote.NewError(0, "invalid FreshBooks request: %v", err)
	}
	req.SetBasicAuth(c.creds.Token, "")
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, remote.NewError(0, "unable to connect to the FreshBooks API: %v; please check your FreshBooks API URL setting (it differs from your account URL)", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.NewError(0, "reading FreshBooks response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, remote.NewError(resp.StatusCode, "unable to connect to the FreshBooks API; please check your FreshBooks API URL setting (it differs from your account URL)")
	}

	root, err := xmlcodec.Decode(string(body), c.LenientParse)
	if err != nil {
		return nil, remote.NewError(0, "unexpected response from FreshBooks: %v", err)
	}

	if root.Attr("status") == "fail" {
		return nil, remote.NewError(0, "the following FreshBooks error occurred: %s", root.Child("error").String())
	}
	return root, nil
}
