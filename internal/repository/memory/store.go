// Package memory keeps job requests in process memory. It backs tests and
// the STORE_DRIVER=memory mode.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/repository"
)

// Store is a mutex-guarded request store. Values are copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu      sync.Mutex
	order   []string
	records map[string]models.Request
	seq     int64
	markers map[string]bool
}

func New() *Store {
	return &Store{
		records: make(map[string]models.Request),
		markers: make(map[string]bool),
	}
}

func (s *Store) List(ctx context.Context) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Request, 0, len(s.order))
	for _, ref := range s.order {
		out = append(out, s.records[ref].Clone())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, ref string) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

// Insert prepends the request so List stays newest first.
func (s *Store) Insert(ctx context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[req.Reference]; ok {
		return errors.Wrapf(repository.ErrConflict, "insert %s", req.Reference)
	}
	s.records[req.Reference] = req.Clone()
	s.order = append([]string{req.Reference}, s.order...)
	return nil
}

func (s *Store) Mutate(ctx context.Context, ref string, fn func(*models.Request) error) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	working := rec.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	s.records[ref] = working.Clone()
	return &working, nil
}

func (s *Store) NextSequence(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

func (s *Store) Marker(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[name], nil
}

func (s *Store) SetMarker(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[name] = true
	return nil
}
