package worker

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
)

type fakeLister struct {
	requests []models.Request
	now      time.Time
	err      error
}

func (f *fakeLister) List(ctx context.Context) ([]models.Request, error) {
	return f.requests, f.err
}

func (f *fakeLister) Now() time.Time { return f.now }

func TestSweepReportsOverdueOnce(t *testing.T) {
	lister := &fakeLister{
		now: time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC),
		requests: []models.Request{
			{Reference: "ORG-2025-0003", Status: models.StatusInProgress, DueDate: "2025-01-19"},
			{Reference: "ORG-2025-0002", Status: models.StatusCompleted, DueDate: "2025-01-01"},
			{Reference: "ORG-2025-0001", Status: models.StatusPendingApproval, DueDate: "2025-01-20"},
		},
	}
	logger, hook := logtest.NewNullLogger()
	m := NewMonitor(lister, time.Minute, logger)

	fresh, err := m.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ORG-2025-0003"}, fresh)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "request overdue", hook.LastEntry().Message)

	fresh, err = m.Sweep(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Len(t, hook.AllEntries(), 1)

	lister.now = lister.now.Add(24 * time.Hour)
	fresh, err = m.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ORG-2025-0001"}, fresh)
}

func TestSweepError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	m := NewMonitor(&fakeLister{err: errors.New("db down")}, time.Minute, logger)
	_, err := m.Sweep(context.Background())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	m := NewMonitor(&fakeLister{now: time.Now()}, time.Hour, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Equal(t, "monitor shutting down", hook.LastEntry().Message)
}
