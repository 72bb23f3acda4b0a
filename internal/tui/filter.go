package tui

import (
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
)

// FilterProjects returns the projects whose name contains search
// case-insensitively and whose status matches the filter. FilterAll
// matches every status. This derivation belongs to the view: the store
// keeps the raw list and the filter inputs, never a filtered copy.
func FilterProjects(list []model.Project, search string, filter store.StatusFilter) []model.Project {
	needle := strings.ToLower(search)
	out := make([]model.Project, 0, len(list))
	for _, p := range list {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if filter != store.FilterAll && string(p.Status) != string(filter) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// StatCounts holds the dashboard summary numbers
type StatCounts struct {
	Total     int
	Active    int
	Completed int
	Pending   int
}

// CountByStatus tallies projects per status for the dashboard cards
func CountByStatus(list []model.Project) StatCounts {
	c := StatCounts{Total: len(list)}
	for _, p := range list {
		switch p.Status {
		case model.StatusActive:
			c.Active++
		case model.StatusCompleted:
			c.Completed++
		case model.StatusPending:
			c.Pending++
		}
	}
	return c
}

// RecentProjects returns up to n of the most recently added projects,
// newest first
func RecentProjects(list []model.Project, n int) []model.Project {
	if n <= 0 || len(list) == 0 {
		return nil
	}
	start := len(list) - n
	if start < 0 {
		start = 0
	}
	out := make([]model.Project, 0, len(list)-start)
	for i := len(list) - 1; i >= start; i-- {
		out = append(out, list[i])
	}
	return out
}

// nextFilter cycles the status filter: all → active → completed → pending
func nextFilter(f store.StatusFilter) store.StatusFilter {
	switch f {
	case store.FilterAll:
		return store.FilterActive
	case store.FilterActive:
		return store.FilterCompleted
	case store.FilterCompleted:
		return store.FilterPending
	default:
		return store.FilterAll
	}
}
