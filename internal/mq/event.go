package mq

import "time"

// Request lifecycle routing keys.
const (
	EventRequestCreated       = "request.created"
	EventRequestDecided       = "request.decided"
	EventRequestAssigned      = "request.assigned"
	EventRequestStatusChanged = "request.status_changed"
	EventRequestNotesUpdated  = "request.notes_updated"
)

// RequestEvent is the message body published for every lifecycle change.
type RequestEvent struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	RequestedBy string    `json:"requestedBy"`
	Department  string    `json:"department"`
	AssignedTo  string    `json:"assignedTo,omitempty"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurredAt"`
}
