package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mend/tickbridge/internal/billing"
	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/invoice"
)

// fakeCatalog is a one-page FreshBooks catalog for pipeline tests
type fakeCatalog struct {
	clients  []domain.Client
	projects map[int64][]domain.Project
	tasks    []domain.Task
}

func (f *fakeCatalog) ListClients(ctx context.Context, page int) ([]domain.Client, int, error) {
	return f.clients, 1, nil
}
func (f *fakeCatalog) ListProjects(ctx context.Context, clientID int64, page int) ([]domain.Project, int, error) {
	return f.projects[clientID], 1, nil
}
func (f *fakeCatalog) ListTasks(ctx context.Context, projectID int64, page int) ([]domain.Task, int, error) {
	return f.tasks, 1, nil
}
func (f *fakeCatalog) ListItems(ctx context.Context, page int) ([]domain.Item, int, error) {
	return nil, 1, nil
}

func newPipelineService(catalog *fakeCatalog, tracker *mockTracker, invoices *mockInvoiceAPI, joins *mockJoins) InvoiceService {
	resolver := billing.NewResolver(catalog)
	return NewInvoiceService(tracker, invoices, resolver, invoice.NewBuilder(resolver), joins, zerolog.Nop())
}

func TestCreateSummaryInvoicePipeline(t *testing.T) {
	ctx := context.Background()

	catalog := &fakeCatalog{
		clients: []domain.Client{{ID: 7, Organization: "Acme Inc"}},
		projects: map[int64][]domain.Project{
			7: {{ID: 12, Name: "Website", BillMethod: domain.BillingProjectRate, Rate: 100}},
		},
	}
	tracker := &mockTracker{entries: []domain.TimeEntry{
		{ID: 101, Date: "2026-03-02", TaskName: "Design", Hours: 2},
		{ID: 102, Date: "2026-03-01", TaskName: "Support", Hours: 3},
	}}
	invoices := &mockInvoiceAPI{nextID: 900}
	joins := &mockJoins{records: map[int64][]int64{}}

	svc := newPipelineService(catalog, tracker, invoices, joins)
	result, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientName:  "Acme Inc",
		ProjectName: "Website",
		ProjectID:   "55",
		Type:        InvoiceTypeSummary,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Matched {
		t.Fatalf("expected a billing match")
	}

	// one summary line at 5 hours x 100
	if len(invoices.created) != 1 {
		t.Fatalf("expected 1 invoice created, got %d", len(invoices.created))
	}
	payload := invoices.created[0]
	if len(payload.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(payload.Lines))
	}
	if payload.Lines[0].UnitCost != 500 {
		t.Fatalf("expected unit cost 500, got %v", payload.Lines[0].UnitCost)
	}
	if payload.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %v", payload.Lines[0].Quantity)
	}
	if payload.ClientID != 7 || payload.Status != domain.InvoiceStatusDraft {
		t.Fatalf("unexpected payload header: %+v", payload)
	}

	// entries marked billed and linked to the new invoice
	if !tracker.billedCalls[101] || !tracker.billedCalls[102] {
		t.Fatalf("expected both entries marked billed, got %v", tracker.billedCalls)
	}
	if got := joins.records[900]; len(got) != 2 {
		t.Fatalf("expected 2 join records for invoice 900, got %v", got)
	}
	if result.TotalHours != 5 {
		t.Fatalf("expected 5 total hours, got %v", result.TotalHours)
	}
}

func TestCreateDetailedInvoiceFlatRate(t *testing.T) {
	ctx := context.Background()

	catalog := &fakeCatalog{
		clients: []domain.Client{{ID: 7, Organization: "Acme Inc"}},
		projects: map[int64][]domain.Project{
			7: {{ID: 12, Name: "Website", BillMethod: domain.BillingFlatRate, Rate: 1500}},
		},
	}
	tracker := &mockTracker{entries: []domain.TimeEntry{
		{ID: 101, TaskName: "Design", Hours: 2},
		{ID: 102, TaskName: "Support", Hours: 3},
	}}
	invoices := &mockInvoiceAPI{nextID: 901}
	joins := &mockJoins{records: map[int64][]int64{}}

	svc := newPipelineService(catalog, tracker, invoices, joins)
	result, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientName:  "Acme Inc",
		ProjectName: "Website",
		Type:        InvoiceTypeDetailed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Matched {
		t.Fatalf("expected a billing match")
	}

	// two itemized zero-cost lines plus the appended flat-rate line
	payload := invoices.created[0]
	if len(payload.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(payload.Lines))
	}
	if payload.Lines[0].UnitCost != 0 || payload.Lines[1].UnitCost != 0 {
		t.Fatalf("itemized flat-rate lines must cost 0")
	}
	if payload.Lines[2].UnitCost != 1500 || payload.Lines[2].Description != "[Website] Flat Rate" {
		t.Fatalf("unexpected flat-rate line: %+v", payload.Lines[2])
	}
}

func TestCreateInvoiceNoMatchIsNotAnError(t *testing.T) {
	ctx := context.Background()

	catalog := &fakeCatalog{clients: []domain.Client{{ID: 3, Organization: "Initech"}}}
	tracker := &mockTracker{entries: []domain.TimeEntry{{ID: 101, Hours: 1}}}
	invoices := &mockInvoiceAPI{}
	joins := &mockJoins{records: map[int64][]int64{}}

	svc := newPipelineService(catalog, tracker, invoices, joins)
	result, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientName:  "Acme Inc",
		ProjectName: "Website",
		Type:        InvoiceTypeSummary,
	})
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if result.Matched {
		t.Fatalf("expected no match")
	}
	if result.Billing.Method != domain.BillingNoProjectFound {
		t.Fatalf("expected sentinel billing method, got %v", result.Billing.Method)
	}
	if len(invoices.created) != 0 || len(tracker.billedCalls) != 0 {
		t.Fatalf("nothing may be created or billed on a no-match")
	}
}

func TestCreateInvoiceNoEntries(t *testing.T) {
	ctx := context.Background()

	svc := newPipelineService(&fakeCatalog{}, &mockTracker{}, &mockInvoiceAPI{}, &mockJoins{records: map[int64][]int64{}})
	_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientName: "Acme Inc", ProjectName: "Website"})
	if err != ErrNoOpenEntries {
		t.Fatalf("expected ErrNoOpenEntries, got %v", err)
	}
}
