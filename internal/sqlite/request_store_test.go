package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/repository/storetest"
)

func open(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "jobdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestRequestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Store {
		return NewRequestStore(open(t))
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := open(t)
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestLegacyRowGetsTimeline(t *testing.T) {
	db := open(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx,
		`INSERT INTO job_requests (reference, seq, status, data) VALUES (?, ?, ?, ?)`,
		"ORG-2024-0001", 1, "approved",
		`{"ref":"ORG-2024-0001","status":"approved","requestedBy":"Prof. Razali Hassan","submittedAt":"2024-12-20T09:00:00Z"}`,
	)
	require.NoError(t, err)

	got, err := NewRequestStore(db).Get(ctx, "ORG-2024-0001")
	require.NoError(t, err)
	require.Len(t, got.Timeline, 1)
	assert.Equal(t, models.SubmittedAction, got.Timeline[0].Action)
	assert.Equal(t, "Prof. Razali Hassan", got.Timeline[0].By)
}

func TestStatusCheckConstraint(t *testing.T) {
	db := open(t)
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO job_requests (reference, seq, status, data) VALUES ('x', 1, 'archived', '{}')`)
	assert.Error(t, err)
}

func TestWithConnParams(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"jobdesk.db", "jobdesk.db?_txlock=immediate&_pragma=busy_timeout(5000)"},
		{"file:jobdesk.db?mode=rwc", "file:jobdesk.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"},
		{"jobdesk.db?_txlock=exclusive", "jobdesk.db?_txlock=exclusive&_pragma=busy_timeout(5000)"},
		{"jobdesk.db?_pragma=busy_timeout(100)&_txlock=deferred", "jobdesk.db?_pragma=busy_timeout(100)&_txlock=deferred"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, withConnParams(tc.dsn), tc.dsn)
	}
}

func TestMutateAcrossHandlesSharingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")
	stores := make([]*RequestStore, 2)
	for i := range stores {
		db, err := New(path)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		require.NoError(t, db.Migrate(ctx))
		stores[i] = NewRequestStore(db)
	}
	req := storetest.Sample(1)
	require.NoError(t, stores[0].Insert(ctx, req))

	const perStore = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*perStore)
	for i, store := range stores {
		for j := 0; j < perStore; j++ {
			wg.Add(1)
			go func(store *RequestStore, n int) {
				defer wg.Done()
				_, err := store.Mutate(ctx, req.Reference, func(r *models.Request) error {
					r.Record(fmt.Sprintf("note %d", n), "tester", time.Now())
					return nil
				})
				errs <- err
			}(store, i*perStore+j)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := stores[1].Get(ctx, req.Reference)
	require.NoError(t, err)
	assert.Len(t, got.Timeline, len(req.Timeline)+2*perStore)
}
