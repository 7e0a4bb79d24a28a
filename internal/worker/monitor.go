package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/jobdesk/backend/internal/metrics"
	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/query"
)

// Lister is the part of the request service the monitor reads from.
type Lister interface {
	List(ctx context.Context) ([]models.Request, error)
	Now() time.Time
}

// Monitor periodically refreshes the request gauges and reports requests
// that have gone past their due date.
type Monitor struct {
	id       string
	requests Lister
	interval time.Duration
	log      logrus.FieldLogger

	mu       sync.Mutex
	reported map[string]bool
}

// NewMonitor creates the monitor with random identifier.
func NewMonitor(requests Lister, interval time.Duration, log logrus.FieldLogger) *Monitor {
	id := uuid.New().String()
	return &Monitor{
		id:       id,
		requests: requests,
		interval: interval,
		log:      log.WithField("monitor", id),
		reported: make(map[string]bool),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done. It
// should be launched in its own goroutine.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sweepAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor shutting down")
			return
		case <-ticker.C:
			m.sweepAndLog(ctx)
		}
	}
}

func (m *Monitor) sweepAndLog(ctx context.Context) {
	if _, err := m.Sweep(ctx); err != nil {
		m.log.WithError(err).Error("monitor sweep failed")
	}
}

// Sweep updates the gauges and returns the references that became overdue
// since the previous sweep.
func (m *Monitor) Sweep(ctx context.Context) ([]string, error) {
	all, err := m.requests.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list requests")
	}
	metrics.SetStatusCounts(query.ComputeStats(all).ByStatus)

	overdue := query.OverdueOpen(all, m.requests.Now())
	metrics.SetOverdue(len(overdue))

	m.mu.Lock()
	defer m.mu.Unlock()
	fresh := make([]string, 0)
	for _, r := range overdue {
		if m.reported[r.Reference] {
			continue
		}
		m.reported[r.Reference] = true
		fresh = append(fresh, r.Reference)
		m.log.WithFields(logrus.Fields{
			"reference": r.Reference,
			"due_date":  r.DueDate,
			"status":    r.Status,
			"assignee":  r.Assignee(),
		}).Warn("request overdue")
	}
	return fresh, nil
}
