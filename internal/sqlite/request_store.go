package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/repository"
)

// RequestStore keeps each request as a JSON document keyed by reference.
type RequestStore struct {
	db *DB
}

func NewRequestStore(db *DB) *RequestStore {
	return &RequestStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var (
		seq  int64
		data string
	)
	if err := row.Scan(&seq, &data); err != nil {
		return nil, err
	}
	var req models.Request
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, errors.Wrap(err, "decode request")
	}
	req.Seq = seq
	req.EnsureTimeline()
	return &req, nil
}

// List returns all requests, newest first.
func (s *RequestStore) List(ctx context.Context) ([]models.Request, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, data FROM job_requests ORDER BY seq DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list requests")
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan request")
		}
		out = append(out, *req)
	}
	return out, errors.Wrap(rows.Err(), "iterate requests")
}

func (s *RequestStore) Get(ctx context.Context, ref string) (*models.Request, error) {
	row := s.db.QueryRowContext(ctx, `SELECT seq, data FROM job_requests WHERE reference = ?`, ref)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get request %s", ref)
	}
	return req, nil
}

func (s *RequestStore) Insert(ctx context.Context, req *models.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO job_requests (reference, seq, status, data) VALUES (?, ?, ?, ?)`,
		req.Reference, req.Seq, string(req.Status), string(data),
	)
	if isUniqueViolation(err) {
		return errors.Wrapf(repository.ErrConflict, "insert %s", req.Reference)
	}
	return errors.Wrapf(err, "insert request %s", req.Reference)
}

// Mutate applies fn inside a transaction; fn errors roll the transaction back.
func (s *RequestStore) Mutate(ctx context.Context, ref string, fn func(*models.Request) error) (*models.Request, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	req, err := scanRequest(tx.QueryRowContext(ctx, `SELECT seq, data FROM job_requests WHERE reference = ?`, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load request %s", ref)
	}
	if err := fn(req); err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE job_requests SET status = ?, data = ? WHERE reference = ?`,
		string(req.Status), string(data), ref,
	); err != nil {
		return nil, errors.Wrapf(err, "update request %s", ref)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return req, nil
}

// NextSequence atomically increments the reference counter.
func (s *RequestStore) NextSequence(ctx context.Context) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value`, repository.ReferenceCounter,
	).Scan(&value)
	return value, errors.Wrap(err, "next sequence")
}

func (s *RequestStore) Marker(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM markers WHERE name = ?`, name).Scan(&count)
	return count > 0, errors.Wrap(err, "read marker")
}

func (s *RequestStore) SetMarker(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO markers (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	return errors.Wrap(err, "set marker")
}
