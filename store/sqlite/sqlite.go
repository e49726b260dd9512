/*
Package sqlite provides a SQLite-backed implementation of the blob slot.

PURPOSE:
  Implements timesheet.BlobStore on a single-row table. The engine
  persists the full snapshot as one JSON document after every mutation,
  so the schema is a durable key-value slot, not a relational model.

SCHEMA:
  snapshot(id=1, body, updated_at) - exactly one row, upserted in place.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so a reader never
  blocks the single writer and crash recovery is cheap.

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  repo, err := timesheet.Open(ctx, store)

SEE ALSO:
  - timesheet/repository.go: BlobStore interface definition
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements timesheet.BlobStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		body BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored snapshot document, or (nil, nil) when the slot
// has never been written.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshot WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Save upserts the single snapshot row.
func (s *Store) Save(ctx context.Context, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		blob, time.Now().UTC().Format(time.RFC3339))
	return err
}
