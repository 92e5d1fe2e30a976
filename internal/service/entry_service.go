package service

import (
	"context"

	"github.com/mend/tickbridge/internal/domain"
)

// EntryService lists open Tick entries for invoicing. Every listing is
// preceded by a reconciliation pass so the view never includes entries
// whose invoice no longer exists.
type EntryService interface {
	// ListOpenProjects returns the distinct projects that currently have
	// unbilled entries.
	ListOpenProjects(ctx context.Context) ([]domain.ProjectGroup, error)

	// ListOpenEntries returns the open entries for one project, sorted
	// by entry date, with their total hours. Empty dates mean the
	// default lookback window.
	ListOpenEntries(ctx context.Context, projectID, startDate, endDate string) ([]domain.TimeEntry, float64, error)
}

type entryService struct {
	tracker   TimeTracker
	reconcile ReconcileService
}

// NewEntryService creates a new entry service
func NewEntryService(tracker TimeTracker, reconcile ReconcileService) EntryService {
	return &entryService{
		tracker:   tracker,
		reconcile: reconcile,
	}
}

func (s *entryService) ListOpenProjects(ctx context.Context) ([]domain.ProjectGroup, error) {
	if err := s.reconcile.Reconcile(ctx); err != nil {
		return nil, err
	}

	entries, err := s.tracker.ListOpenEntries(ctx, "", "", "")
	if err != nil {
		return nil, err
	}
	return domain.GroupByProject(entries), nil
}

func (s *entryService) ListOpenEntries(ctx context.Context, projectID, startDate, endDate string) ([]domain.TimeEntry, float64, error) {
	if err := s.reconcile.Reconcile(ctx); err != nil {
		return nil, 0, err
	}

	entries, err := s.tracker.ListOpenEntries(ctx, projectID, startDate, endDate)
	if err != nil {
		return nil, 0, err
	}

	domain.SortByDate(entries)
	return entries, domain.TotalHours(entries), nil
}
