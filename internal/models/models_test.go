package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusLabels(t *testing.T) {
	require.Len(t, Statuses, 6)
	for _, s := range Statuses {
		require.True(t, s.Valid())
		require.NotEqual(t, string(s), s.Label())
	}
	require.Equal(t, "In Progress", StatusInProgress.Label())
	require.Equal(t, "Not Approved", StatusRejected.BadgeLabel())
	require.False(t, RequestStatus("archived").Valid())
	require.Equal(t, "archived", RequestStatus("archived").Label())

	s, ok := ParseStatus("on_hold")
	require.True(t, ok)
	require.Equal(t, StatusOnHold, s)
	_, ok = ParseStatus("all")
	require.False(t, ok)
}

func TestCategoryLabels(t *testing.T) {
	require.Len(t, Categories, 6)
	require.Equal(t, "Event Coverage", CategoryEvent.Label())
	require.Equal(t, "🎬 Video Production", CategoryVideo.IconLabel())
	require.False(t, Category("poster").Valid())
}

func TestTransitionPolicies(t *testing.T) {
	var permissive PermissiveTransitions
	require.True(t, permissive.Allow(StatusCompleted, StatusPendingApproval))
	require.False(t, permissive.Allow(StatusCompleted, "archived"))

	require.True(t, StrictTransitions.Allow(StatusApproved, StatusInProgress))
	require.True(t, StrictTransitions.Allow(StatusOnHold, StatusInProgress))
	require.False(t, StrictTransitions.Allow(StatusPendingApproval, StatusInProgress))
	require.False(t, StrictTransitions.Allow(StatusRejected, StatusApproved))
	require.False(t, StrictTransitions.Allow(StatusInProgress, StatusApproved))
}

func TestFormatReference(t *testing.T) {
	require.Equal(t, "ORG-2025-0004", FormatReference("ORG", 2025, 4))
	require.Equal(t, "ORG-2025-12345", FormatReference("ORG", 2025, 12345))
}

func TestCloneIsDeep(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	who := "Hafiz Nordin"
	orig := Request{
		Reference:  "ORG-2025-0001",
		Subtypes:   []string{"Poster"},
		AssignedTo: &who,
		ApprovedAt: &at,
		Timeline:   []TimelineEntry{{Action: SubmittedAction, By: "x", Date: at}},
	}
	cp := orig.Clone()
	cp.Subtypes[0] = "Banner"
	*cp.AssignedTo = "Nurul Ain"
	*cp.ApprovedAt = at.Add(time.Hour)
	cp.Record("Endorsed by HOD", "HOD", at)

	require.Equal(t, "Poster", orig.Subtypes[0])
	require.Equal(t, "Hafiz Nordin", orig.Assignee())
	require.True(t, orig.ApprovedAt.Equal(at))
	require.Len(t, orig.Timeline, 1)
	require.Len(t, cp.Timeline, 2)
}

func TestEnsureTimeline(t *testing.T) {
	at := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	r := Request{RequestedBy: "Tan Mei Ling", SubmittedAt: at}
	r.EnsureTimeline()
	require.Equal(t, []TimelineEntry{{Action: SubmittedAction, By: "Tan Mei Ling", Date: at}}, r.Timeline)

	r.Record("Endorsed by HOD", "HOD", at)
	r.EnsureTimeline()
	require.Len(t, r.Timeline, 2)
}

func TestBeforeSaveRejectsUnknownStatus(t *testing.T) {
	r := &Request{Reference: "X"}
	require.NoError(t, r.BeforeSave(nil))
	require.Equal(t, StatusPendingApproval, r.Status)

	r.Status = "archived"
	require.Error(t, r.BeforeSave(nil))
}
