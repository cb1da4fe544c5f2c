package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for contacts and cohorts.
// Uses SQLite with WAL mode so readers never block on writers.
type Store struct {
	db    *sql.DB
	retry RetryPolicy

	// gate serializes bulk destructive operations against every other
	// write. Normal writes hold it for read; ClearContacts/ClearCohorts/
	// ResetAll hold it for write so no upsert interleaves mid-deletion.
	gate sync.RWMutex
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 10-second busy timeout for writer lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A handful of connections: WAL lets readers proceed concurrently,
	// SQLite still serializes writers via the busy timeout.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, retry: DefaultRetryPolicy()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetRetryPolicy replaces the write retry policy. Intended for tests that
// want to shrink the backoff schedule.
func (s *Store) SetRetryPolicy(p RetryPolicy) {
	s.retry = p
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// now returns the timestamp format used for created_at/updated_at.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// write runs op under the shared gate and the retry policy. Every normal
// (non-bulk) write in the package goes through here.
func (s *Store) write(ctx context.Context, op func() error) error {
	s.gate.RLock()
	defer s.gate.RUnlock()
	return s.retry.Do(ctx, op)
}

// bulkWrite runs op under the exclusive gate and the retry policy.
func (s *Store) bulkWrite(ctx context.Context, op func() error) error {
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.retry.Do(ctx, op)
}
