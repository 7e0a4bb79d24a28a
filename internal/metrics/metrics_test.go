package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(lifecycleOperations.WithLabelValues("create", "ok"))
	RecordOperation("create", "")
	RecordOperation("create", "ok")
	require.Equal(t, before+2, testutil.ToFloat64(lifecycleOperations.WithLabelValues("create", "ok")))
}

func TestSetStatusCounts(t *testing.T) {
	SetStatusCounts(map[models.RequestStatus]int{models.StatusApproved: 3})
	require.Equal(t, 3.0, testutil.ToFloat64(requestsByStatus.WithLabelValues("approved")))
	require.Equal(t, 0.0, testutil.ToFloat64(requestsByStatus.WithLabelValues("on_hold")))

	SetOverdue(2)
	require.Equal(t, 2.0, testutil.ToFloat64(requestsOverdue))
}
