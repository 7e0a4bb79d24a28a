package query

import (
	"time"

	"github.com/example/jobdesk/backend/internal/models"
)

// IsOverdue reports whether dueDate (YYYY-MM-DD) is strictly before the
// calendar day of now, in now's location. Unparseable dates are never overdue.
func IsOverdue(dueDate string, now time.Time) bool {
	if dueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(models.DateLayout, dueDate, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// IsOpen reports whether work on a request can still be outstanding.
func IsOpen(status models.RequestStatus) bool {
	return status != models.StatusCompleted && status != models.StatusRejected
}

// OverdueOpen returns open requests whose due date has passed.
func OverdueOpen(all []models.Request, now time.Time) []models.Request {
	out := make([]models.Request, 0)
	for _, r := range all {
		if IsOpen(r.Status) && IsOverdue(r.DueDate, now) {
			out = append(out, r.Clone())
		}
	}
	return out
}
