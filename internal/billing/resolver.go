// Package billing matches Tick client/project names against the
// FreshBooks catalog and computes per-line unit costs from the project's
// billing method.
package billing

import (
	"context"
	"strings"

	"github.com/mend/tickbridge/internal/domain"
)

// maxItemNameLen is the FreshBooks limit on item names. Task names
// longer than this can never match an item, so the item fallback is
// skipped for them.
const maxItemNameLen = 15

// CatalogAPI is the slice of the FreshBooks client the resolver reads.
// All listings are paginated at 100 per page, 1-indexed, with the total
// page count reported alongside each page.
type CatalogAPI interface {
	ListClients(ctx context.Context, page int) ([]domain.Client, int, error)
	ListProjects(ctx context.Context, clientID int64, page int) ([]domain.Project, int, error)
	ListTasks(ctx context.Context, projectID int64, page int) ([]domain.Task, int, error)
	ListItems(ctx context.Context, page int) ([]domain.Item, int, error)
}

// Resolver resolves billing details against a FreshBooks catalog. It
// holds no cache; every resolution re-reads the remote pages.
type Resolver struct {
	api CatalogAPI
}

// NewResolver creates a resolver backed by the given catalog
func NewResolver(api CatalogAPI) *Resolver {
	return &Resolver{api: api}
}

// ResolveBilling finds the FreshBooks project matching a Tick client and
// project name. Matching is case-insensitive on trimmed names; the first
// match in API page order wins, and the same organization name may appear
// on several FreshBooks clients. No match returns the no-project-found
// sentinel, not an error; transport errors propagate.
func (r *Resolver) ResolveBilling(ctx context.Context, clientName, projectName string) (domain.BillingDetails, error) {
	wantClient := strings.TrimSpace(clientName)
	wantProject := strings.TrimSpace(projectName)

	page, totalPages := 1, 1
	for page <= totalPages {
		clients, pages, err := r.api.ListClients(ctx, page)
		if err != nil {
			return domain.BillingDetails{}, err
		}
		if page == 1 && pages > 1 {
			totalPages = pages
		}

		for _, client := range clients {
			if !strings.EqualFold(strings.TrimSpace(client.Organization), wantClient) {
				continue
			}
			details, found, err := r.findProject(ctx, client.ID, wantProject)
			if err != nil {
				return domain.BillingDetails{}, err
			}
			if found {
				return details, nil
			}
			// keep scanning: another client may carry the same name
		}
		page++
	}

	return domain.NoProjectDetails(), nil
}

func (r *Resolver) findProject(ctx context.Context, clientID int64, wantProject string) (domain.BillingDetails, bool, error) {
	page, totalPages := 1, 1
	for page <= totalPages {
		projects, pages, err := r.api.ListProjects(ctx, clientID, page)
		if err != nil {
			return domain.BillingDetails{}, false, err
		}
		if page == 1 && pages > 1 {
			totalPages = pages
		}

		for _, project := range projects {
			if strings.EqualFold(strings.TrimSpace(project.Name), wantProject) {
				return domain.BillingDetails{
					Method:    project.BillMethod,
					Rate:      project.Rate,
					ClientID:  clientID,
					ProjectID: project.ID,
				}, true, nil
			}
		}
		page++
	}
	return domain.BillingDetails{}, false, nil
}

// UnitCost returns the per-line unit cost for a billing method. Flat-rate
// lines are priced by the invoice builder, not per line, so they cost 0
// here.
func (r *Resolver) UnitCost(ctx context.Context, method domain.BillingMethod, taskName string, projectRate float64, projectID int64) float64 {
	switch method {
	case domain.BillingFlatRate:
		return 0
	case domain.BillingProjectRate, domain.BillingStaffRate:
		return projectRate
	case domain.BillingTaskRate, domain.BillingNoProjectFound:
		return r.taskRateLookup(ctx, taskName, projectID)
	default:
		return 0
	}
}

// taskRateLookup finds the rate for a task name, falling back to the
// item catalog for names short enough to be an item. Every transport
// failure here reads as "no match": a single bad page must never block
// invoicing, and a zero rate is visible on the draft invoice.
func (r *Resolver) taskRateLookup(ctx context.Context, taskName string, projectID int64) float64 {
	name := strings.TrimSpace(taskName)

	page, totalPages := 1, 1
	for page <= totalPages {
		tasks, pages, err := r.api.ListTasks(ctx, projectID, page)
		if err != nil {
			return 0
		}
		if page == 1 && pages > 1 {
			totalPages = pages
		}
		for _, task := range tasks {
			if task.Name == name {
				return task.Rate
			}
		}
		page++
	}

	if len(name) > maxItemNameLen {
		return 0
	}

	page, totalPages = 1, 1
	for page <= totalPages {
		items, pages, err := r.api.ListItems(ctx, page)
		if err != nil {
			return 0
		}
		if page == 1 && pages > 1 {
			totalPages = pages
		}
		for _, item := range items {
			if item.Name == name {
				return item.UnitCost
			}
		}
		page++
	}

	return 0
}
