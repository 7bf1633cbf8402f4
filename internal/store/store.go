// Package store implements the versioned local diagram store on SQLite.
//
// The store holds five collections (diagrams, diagram_tables, relationships,
// dependencies, config) and evolves them through an ordered migration
// pipeline keyed to PRAGMA user_version; see migrations.go.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// FileName is the database file created under the data directory.
const FileName = "blueprints.db"

// timeFormat is the timestamp encoding used in all TEXT columns.
const timeFormat = time.RFC3339Nano

// Store is a handle to the local diagram database. It is safe for
// concurrent use; a single handle is opened per data directory and shared.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens (or creates) the local store under dataDir, applies any pending
// migrations, and lazily creates the config record. A migration failure
// aborts the open; no partially migrated handle is returned.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// The store serializes writes itself; a single connection avoids
	// SQLITE_BUSY between overlapping readers and writers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := ensureConfig(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database. Idempotent; operations after
// Close return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// NewID generates an id for a new entity (UUID v7, falling back to v4).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
