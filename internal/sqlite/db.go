package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens the database file. A single connection serialises writers in
// this process, and immediate transactions take the write lock up front so
// another process sharing the file waits on busy_timeout instead of failing
// a lock upgrade.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", withConnParams(dataSourceName))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open database")
	}
	return &DB{db}, nil
}

// withConnParams adds the transaction lock mode and busy timeout unless the
// caller already set them.
func withConnParams(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

const schema = `
CREATE TABLE IF NOT EXISTS job_requests (
    reference TEXT PRIMARY KEY,
    seq INTEGER NOT NULL UNIQUE,
    status TEXT NOT NULL CHECK(status IN ('pending_approval', 'approved', 'rejected', 'in_progress', 'on_hold', 'completed')),
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_job_requests_status ON job_requests(status);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS markers (
    name TEXT PRIMARY KEY,
    set_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Migrate creates the tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}
