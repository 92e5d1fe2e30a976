package domain

import (
	"errors"
	"sort"
	"strings"
)

// TimeEntry is a single Tick time entry. Entries are parsed from API
// responses and never mutated afterwards; billed-status changes happen
// remotely and show up on the next fetch.
type TimeEntry struct {
	ID          int64
	Date        string // YYYY-MM-DD as reported by Tick, sorts lexically
	ClientName  string
	ProjectName string
	ProjectID   string
	TaskName    string
	TaskID      int64
	Notes       string
	Hours       float64
	Billed      bool
}

// NoTaskSelected is the placeholder Tick reports for entries logged
// without a task.
const NoTaskSelected = "No Task Selected"

// Validate returns an error if the entry is invalid
func (e *TimeEntry) Validate() error {
	if e.ID <= 0 {
		return errors.New("entry ID is required")
	}
	if e.Hours < 0 {
		return errors.New("hours cannot be negative")
	}
	return nil
}

// ProjectGroup identifies a project that has open entries
type ProjectGroup struct {
	Project   string
	ProjectID string
	Client    string
}

// GroupByProject reduces entries to their distinct project/client tuples,
// preserving first-seen order.
func GroupByProject(entries []TimeEntry) []ProjectGroup {
	var groups []ProjectGroup
	seen := make(map[ProjectGroup]bool)
	for _, e := range entries {
		g := ProjectGroup{
			Project:   e.ProjectName,
			ProjectID: e.ProjectID,
			Client:    e.ClientName,
		}
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}

// SortByDate orders entries by entry date, oldest first
func SortByDate(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Date) < strings.ToLower(entries[j].Date)
	})
}

// TotalHours sums the hours across entries
func TotalHours(entries []TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
