// Package query derives filtered, searched and grouped views over a request
// collection. Nothing here mutates its input.
package query

import (
	"strings"

	"github.com/example/jobdesk/backend/internal/models"
)

// AllStatuses is the status filter value that disables status filtering.
const AllStatuses = "all"

// Filter selects requests for a list view.
type Filter struct {
	Status string
	Search string
}

// List returns the requests matching f in their stored order.
func List(all []models.Request, f Filter) []models.Request {
	needle := strings.ToLower(f.Search)
	out := make([]models.Request, 0, len(all))
	for _, r := range all {
		if f.Status != "" && f.Status != AllStatuses && string(r.Status) != f.Status {
			continue
		}
		if needle != "" && !strings.Contains(haystack(r), needle) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

func haystack(r models.Request) string {
	return strings.ToLower(strings.Join([]string{
		r.Reference,
		r.RequestedBy,
		r.Department,
		string(r.Category),
		r.Assignee(),
		r.DescriptionPlain,
	}, " "))
}

// GroupByStatus partitions all into one bucket per status. Every status has
// a bucket, empty ones included.
func GroupByStatus(all []models.Request) map[models.RequestStatus][]models.Request {
	groups := make(map[models.RequestStatus][]models.Request, len(models.Statuses))
	for _, s := range models.Statuses {
		groups[s] = make([]models.Request, 0)
	}
	for _, r := range all {
		groups[r.Status] = append(groups[r.Status], r.Clone())
	}
	return groups
}

// Column is one board column.
type Column struct {
	Status   models.RequestStatus `json:"status"`
	Label    string               `json:"label"`
	Count    int                  `json:"count"`
	Requests []models.Request     `json:"requests"`
}

// Board lays GroupByStatus out as ordered columns.
func Board(all []models.Request) []Column {
	groups := GroupByStatus(all)
	cols := make([]Column, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		cols = append(cols, Column{
			Status:   s,
			Label:    s.Label(),
			Count:    len(groups[s]),
			Requests: groups[s],
		})
	}
	return cols
}

// Stats holds the dashboard counters.
type Stats struct {
	Total    int                          `json:"total"`
	ByStatus map[models.RequestStatus]int `json:"byStatus"`
}

func ComputeStats(all []models.Request) Stats {
	st := Stats{Total: len(all), ByStatus: make(map[models.RequestStatus]int, len(models.Statuses))}
	for _, s := range models.Statuses {
		st.ByStatus[s] = 0
	}
	for _, r := range all {
		st.ByStatus[r.Status]++
	}
	return st
}
