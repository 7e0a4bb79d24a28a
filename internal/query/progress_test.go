package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
)

func TestDeriveProgressStep(t *testing.T) {
	cases := []struct {
		status   models.RequestStatus
		index    int
		rejected bool
		onHold   bool
	}{
		{models.StatusPendingApproval, 0, false, false},
		{models.StatusRejected, 0, true, false},
		{models.StatusApproved, 1, false, false},
		{models.StatusInProgress, 2, false, false},
		{models.StatusOnHold, 2, false, true},
		{models.StatusCompleted, 4, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			p := DeriveProgressStep(tc.status)
			require.Equal(t, tc.index, p.Index)
			require.Equal(t, StepLabels[tc.index], p.Label)
			require.Equal(t, tc.rejected, p.Rejected)
			require.Equal(t, tc.onHold, p.OnHold)
		})
	}
}

func TestDeriveProgressStep_SharedPositionsAreFlaggedDistinctly(t *testing.T) {
	hold, working := DeriveProgressStep(models.StatusOnHold), DeriveProgressStep(models.StatusInProgress)
	require.Equal(t, working.Index, hold.Index)
	require.True(t, hold.OnHold)
	require.False(t, working.OnHold)

	rejected, pending := DeriveProgressStep(models.StatusRejected), DeriveProgressStep(models.StatusPendingApproval)
	require.Equal(t, pending.Index, rejected.Index)
	require.NotEqual(t, pending, rejected)
}

func states(views []StepView) []StepState {
	out := make([]StepState, len(views))
	for i, v := range views {
		out[i] = v.State
	}
	return out
}

func TestSteps(t *testing.T) {
	require.Equal(t, []StepState{StepActive, StepPending, StepPending, StepPending, StepPending}, states(Steps(models.StatusPendingApproval)))
	require.Equal(t, []StepState{StepRejected, StepPending, StepPending, StepPending, StepPending}, states(Steps(models.StatusRejected)))
	require.Equal(t, []StepState{StepDone, StepDone, StepHold, StepPending, StepPending}, states(Steps(models.StatusOnHold)))
	require.Equal(t, []StepState{StepDone, StepDone, StepDone, StepDone, StepActive}, states(Steps(models.StatusCompleted)))
}

func TestStatusMessage(t *testing.T) {
	require.Equal(t, "rust", StatusMessage(models.StatusRejected).Tone)
	require.Contains(t, StatusMessage(models.StatusCompleted).Text, "complete")
	require.Equal(t, StatusMessage(models.StatusPendingApproval), StatusMessage("bogus"))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 1, 20, 15, 0, 0, 0, time.UTC)
	require.True(t, IsOverdue("2025-01-19", now))
	require.False(t, IsOverdue("2025-01-20", now), "due today is not overdue")
	require.False(t, IsOverdue("2025-01-21", now))
	require.False(t, IsOverdue("", now))
	require.False(t, IsOverdue("not a date", now))
}

func TestOverdueOpen(t *testing.T) {
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	all := []models.Request{
		{Reference: "A", Status: models.StatusInProgress, DueDate: "2025-01-10"},
		{Reference: "B", Status: models.StatusCompleted, DueDate: "2025-01-10"},
		{Reference: "C", Status: models.StatusRejected, DueDate: "2025-01-10"},
		{Reference: "D", Status: models.StatusApproved, DueDate: "2025-02-10"},
		{Reference: "E", Status: models.StatusPendingApproval, DueDate: "2025-01-19"},
	}
	require.Equal(t, []string{"A", "E"}, refs(OverdueOpen(all, now)))
}
