package query

import "github.com/example/jobdesk/backend/internal/models"

// StepLabels is the fixed display sequence of the requester stepper.
var StepLabels = []string{"Submitted", "HOD Approval", "In Progress", "Under Review", "Completed"}

var stepIndex = map[models.RequestStatus]int{
	models.StatusPendingApproval: 0,
	models.StatusRejected:        0,
	models.StatusApproved:        1,
	models.StatusInProgress:      2,
	models.StatusOnHold:          2,
	models.StatusCompleted:       4,
}

// Progress is the stepper position of a status. Rejected and OnHold are
// display hints, not extra statuses.
type Progress struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Rejected bool   `json:"rejected"`
	OnHold   bool   `json:"onHold"`
}

func DeriveProgressStep(status models.RequestStatus) Progress {
	idx := stepIndex[status]
	return Progress{
		Index:    idx,
		Label:    StepLabels[idx],
		Rejected: status == models.StatusRejected,
		OnHold:   status == models.StatusOnHold,
	}
}

// StepState is how a single stepper dot is drawn.
type StepState string

const (
	StepDone     StepState = "done"
	StepActive   StepState = "active"
	StepPending  StepState = "pending"
	StepRejected StepState = "rejected"
	StepHold     StepState = "hold"
)

type StepView struct {
	Label string    `json:"label"`
	State StepState `json:"state"`
}

// Steps expands a status into one view per stepper step.
func Steps(status models.RequestStatus) []StepView {
	p := DeriveProgressStep(status)
	out := make([]StepView, len(StepLabels))
	for i, label := range StepLabels {
		state := StepPending
		switch {
		case p.Rejected && i == 0:
			state = StepRejected
		case p.OnHold && i == p.Index:
			state = StepHold
		case i < p.Index:
			state = StepDone
		case i == p.Index:
			state = StepActive
		}
		out[i] = StepView{Label: label, State: state}
	}
	return out
}

// Message is the requester-facing explanation of a status.
type Message struct {
	Tone string `json:"tone"`
	Text string `json:"text"`
}

var messages = map[models.RequestStatus]Message{
	models.StatusPendingApproval: {"amber", "Your request is waiting for your HOD's endorsement. You will receive an email update once it is approved."},
	models.StatusApproved:        {"green", "Your HOD has endorsed this request. Our team has been notified and will begin work soon. You will receive an email when work starts."},
	models.StatusInProgress:      {"indigo", "Our team is actively working on your request. If we need clarification, we will reach out via your request email thread."},
	models.StatusOnHold:          {"gray", "Your request has been placed on hold. Our team will contact you via your request email thread with further details."},
	models.StatusCompleted:       {"green", "Your project is complete! Please collect it from the Digital Communications office, or check your email for the file link."},
	models.StatusRejected:        {"rust", "This request was not approved by your HOD. Please speak with your HOD directly for more information."},
}

func StatusMessage(status models.RequestStatus) Message {
	if m, ok := messages[status]; ok {
		return m
	}
	return messages[models.StatusPendingApproval]
}
