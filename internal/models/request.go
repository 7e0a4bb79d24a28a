package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DateLayout is the wire and storage format of date-only fields.
const DateLayout = "2006-01-02"

// SubmittedAction is the action text of the first timeline entry.
const SubmittedAction = "Request submitted"

// TimelineEntry is one immutable line of a request's audit trail.
type TimelineEntry struct {
	Action string    `json:"action"`
	By     string    `json:"by"`
	Date   time.Time `json:"date"`
}

// Request is a job request persisted by every store implementation.
type Request struct {
	Reference string        `gorm:"primaryKey;size:32" json:"ref"`
	Seq       int64         `gorm:"uniqueIndex;not null" json:"-"`
	Status    RequestStatus `gorm:"size:32;index;not null" json:"status"`

	RequestedBy string `json:"requestedBy"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	HODEmail    string `gorm:"column:hod_email" json:"hodEmail"`

	Category Category `gorm:"size:16;index" json:"category"`
	Subtypes []string `gorm:"serializer:json" json:"subtypes"`

	RequestedDate string     `gorm:"size:10" json:"requestedDate"`
	DueDate       string     `gorm:"size:10" json:"dueDate"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	RejectedAt    *time.Time `json:"rejectedAt,omitempty"`

	JobPurpose       string `json:"jobPurpose"`
	Description      string `json:"description"`
	DescriptionPlain string `json:"descriptionPlain"`
	References       string `json:"references"`

	AssignedTo      *string         `json:"assignedTo"`
	InternalNotes   string          `json:"internalNotes"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	Timeline        []TimelineEntry `gorm:"serializer:json" json:"timeline"`
}

// TableName keeps the table name stable regardless of gorm naming strategy.
func (Request) TableName() string {
	return "job_requests"
}

// BeforeSave is a GORM hook that refuses statuses outside the enumeration.
func (r *Request) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = StatusPendingApproval
	}
	if !r.Status.Valid() {
		return fmt.Errorf("request %s: unknown status %q", r.Reference, r.Status)
	}
	return nil
}

// AfterFind restores the submission entry for rows written without a timeline.
func (r *Request) AfterFind(tx *gorm.DB) error {
	r.EnsureTimeline()
	return nil
}

// Assignee returns the assigned team member or an empty string.
func (r *Request) Assignee() string {
	if r.AssignedTo == nil {
		return ""
	}
	return *r.AssignedTo
}

// Record appends an entry to the timeline.
func (r *Request) Record(action, by string, at time.Time) {
	r.Timeline = append(r.Timeline, TimelineEntry{Action: action, By: by, Date: at})
}

// EnsureTimeline gives legacy records the implicit submission entry.
func (r *Request) EnsureTimeline() {
	if len(r.Timeline) > 0 {
		return
	}
	r.Timeline = []TimelineEntry{{Action: SubmittedAction, By: r.RequestedBy, Date: r.SubmittedAt}}
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (r Request) Clone() Request {
	out := r
	if r.Subtypes != nil {
		out.Subtypes = append([]string(nil), r.Subtypes...)
	}
	if r.Timeline != nil {
		out.Timeline = append([]TimelineEntry(nil), r.Timeline...)
	}
	out.ApprovedAt = cloneTime(r.ApprovedAt)
	out.RejectedAt = cloneTime(r.RejectedAt)
	if r.AssignedTo != nil {
		v := *r.AssignedTo
		out.AssignedTo = &v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// FormatReference renders PREFIX-YEAR-NNNN.
func FormatReference(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
