// Package storetest is the behaviour every request store must share. Store
// packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/repository"
)

// Store mirrors the service's persistence contract.
type Store interface {
	List(ctx context.Context) ([]models.Request, error)
	Get(ctx context.Context, ref string) (*models.Request, error)
	Insert(ctx context.Context, req *models.Request) error
	Mutate(ctx context.Context, ref string, fn func(*models.Request) error) (*models.Request, error)
	NextSequence(ctx context.Context) (int64, error)
	Marker(ctx context.Context, name string) (bool, error)
	SetMarker(ctx context.Context, name string) error
}

// Sample returns a minimal valid request with the given sequence number.
func Sample(seq int64) *models.Request {
	submitted := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	req := &models.Request{
		Reference:        models.FormatReference("ORG", 2025, seq),
		Seq:              seq,
		Status:           models.StatusPendingApproval,
		RequestedBy:      "Tan Mei Ling",
		Email:            "meiling@example.edu",
		Department:       "Student Affairs",
		HODEmail:         "head.sa@example.edu",
		Category:         models.CategoryEvent,
		Subtypes:         []string{"Photo & Video"},
		RequestedDate:    "2025-01-05",
		DueDate:          "2025-01-23",
		SubmittedAt:      submitted,
		Description:      "<p>Coverage</p>",
		DescriptionPlain: "Coverage",
	}
	req.Record(models.SubmittedAction, req.RequestedBy, submitted)
	return req
}

// Run exercises newStore against the shared contract. Each subtest gets a
// fresh store.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		s := newStore(t)
		in := Sample(1)
		require.NoError(t, s.Insert(ctx, in))

		got, err := s.Get(ctx, in.Reference)
		require.NoError(t, err)
		assert.Equal(t, in.Reference, got.Reference)
		assert.Equal(t, in.Seq, got.Seq)
		assert.Equal(t, in.Subtypes, got.Subtypes)
		assert.True(t, in.SubmittedAt.Equal(got.SubmittedAt))
		require.Len(t, got.Timeline, 1)
		assert.Equal(t, models.SubmittedAction, got.Timeline[0].Action)
		assert.Nil(t, got.AssignedTo)
	})

	t.Run("get unknown", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "ORG-2025-0404")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("duplicate reference", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert(ctx, Sample(1)))
		err := s.Insert(ctx, Sample(1))
		assert.True(t, errors.Is(err, repository.ErrConflict))
	})

	t.Run("list newest first", func(t *testing.T) {
		s := newStore(t)
		for seq := int64(1); seq <= 3; seq++ {
			require.NoError(t, s.Insert(ctx, Sample(seq)))
		}
		all, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "ORG-2025-0003", all[0].Reference)
		assert.Equal(t, "ORG-2025-0001", all[2].Reference)
	})

	t.Run("mutate persists", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert(ctx, Sample(1)))
		ref := Sample(1).Reference

		out, err := s.Mutate(ctx, ref, func(r *models.Request) error {
			name := "Hafiz Nordin"
			r.AssignedTo = &name
			r.Status = models.StatusApproved
			r.Record("Assigned to Hafiz Nordin", "Digital Comms Team", r.SubmittedAt.Add(time.Hour))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Hafiz Nordin", out.Assignee())

		got, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, "Hafiz Nordin", got.Assignee())
		assert.Len(t, got.Timeline, 2)
	})

	t.Run("mutate error writes nothing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert(ctx, Sample(1)))
		ref := Sample(1).Reference
		boom := errors.New("refused")

		_, err := s.Mutate(ctx, ref, func(r *models.Request) error {
			r.Status = models.StatusCompleted
			r.InternalNotes = "should not stick"
			return boom
		})
		assert.Equal(t, boom, err)

		got, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, got.Status)
		assert.Empty(t, got.InternalNotes)
	})

	t.Run("mutate unknown", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Mutate(ctx, "ORG-2025-0404", func(*models.Request) error { return nil })
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := newStore(t)
		in := Sample(1)
		require.NoError(t, s.Insert(ctx, in))
		in.Subtypes[0] = "changed"

		got, err := s.Get(ctx, in.Reference)
		require.NoError(t, err)
		got.Timeline[0].Action = "changed"

		again, err := s.Get(ctx, in.Reference)
		require.NoError(t, err)
		assert.Equal(t, "Photo & Video", again.Subtypes[0])
		assert.Equal(t, models.SubmittedAction, again.Timeline[0].Action)
	})

	t.Run("sequence is monotonic under concurrency", func(t *testing.T) {
		s := newStore(t)
		const n = 20
		seen := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := s.NextSequence(ctx)
				assert.NoError(t, err)
				seen <- v
			}()
		}
		wg.Wait()
		close(seen)

		unique := map[int64]bool{}
		for v := range seen {
			unique[v] = true
		}
		assert.Len(t, unique, n)
		for v := int64(1); v <= n; v++ {
			assert.True(t, unique[v], "missing %d", v)
		}
	})

	t.Run("concurrent mutates keep every entry", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert(ctx, Sample(1)))
		ref := Sample(1).Reference

		const n = 10
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Mutate(ctx, ref, func(r *models.Request) error {
					r.Record("Status changed to: In Progress", "Digital Comms Team", r.SubmittedAt)
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Len(t, got.Timeline, n+1)
	})

	t.Run("markers", func(t *testing.T) {
		s := newStore(t)
		set, err := s.Marker(ctx, "demo_loaded")
		require.NoError(t, err)
		assert.False(t, set)

		require.NoError(t, s.SetMarker(ctx, "demo_loaded"))
		require.NoError(t, s.SetMarker(ctx, "demo_loaded"))

		set, err = s.Marker(ctx, "demo_loaded")
		require.NoError(t, err)
		assert.True(t, set)
	})
}
