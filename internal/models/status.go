package models

// RequestStatus describes the life-cycle state of a job request.
type RequestStatus string

const (
	StatusPendingApproval RequestStatus = "pending_approval"
	StatusApproved        RequestStatus = "approved"
	StatusRejected        RequestStatus = "rejected"
	StatusInProgress      RequestStatus = "in_progress"
	StatusOnHold          RequestStatus = "on_hold"
	StatusCompleted       RequestStatus = "completed"
)

// Statuses lists every status in the order the stage board shows them.
var Statuses = []RequestStatus{
	StatusPendingApproval,
	StatusApproved,
	StatusRejected,
	StatusInProgress,
	StatusOnHold,
	StatusCompleted,
}

var stageLabels = map[RequestStatus]string{
	StatusPendingApproval: "Awaiting Approval",
	StatusApproved:        "Approved",
	StatusRejected:        "Rejected",
	StatusInProgress:      "In Progress",
	StatusOnHold:          "On Hold",
	StatusCompleted:       "Completed",
}

var badgeLabels = map[RequestStatus]string{
	StatusPendingApproval: "Awaiting HOD Approval",
	StatusApproved:        "HOD Approved",
	StatusRejected:        "Not Approved",
	StatusInProgress:      "In Progress",
	StatusOnHold:          "On Hold",
	StatusCompleted:       "Completed",
}

// Valid reports whether s is one of the six known statuses.
func (s RequestStatus) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label is the stage name used on the team board and in timeline entries.
func (s RequestStatus) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// BadgeLabel is the wording shown to requesters.
func (s RequestStatus) BadgeLabel() string {
	if l, ok := badgeLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus converts raw input into a known status.
func ParseStatus(v string) (RequestStatus, bool) {
	s := RequestStatus(v)
	return s, s.Valid()
}
