// Package history implements the mirror store: one obfuscated snapshot per
// diagram, keyed by diagram id and owned by an obfuscated user identity.
//
// The mirror lives in its own database file with its own, independently
// versioned migration sequence. Entries are derived data; only the
// synchronization routine writes here.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// FileName is the database file created under the data directory.
const FileName = "history.db"

const timeFormat = time.RFC3339Nano

// Store is a handle to the history mirror database.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// migration mirrors the local store's pipeline shape; the mirror has its own
// two-step history.
type migration struct {
	version int
	up      func(tx *sql.Tx) error
}

var migrations = []migration{
	{1, func(tx *sql.Tx) error {
		_, err := tx.Exec(`CREATE TABLE diagrams (
    id TEXT PRIMARY KEY,
    uid TEXT NOT NULL,
    metadata TEXT NOT NULL
);`)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`CREATE INDEX idx_history_uid ON diagrams(uid);`)
		return err
	}},
	{2, func(tx *sql.Tx) error {
		stmts := []string{
			`ALTER TABLE diagrams ADD COLUMN created_at TEXT NOT NULL DEFAULT '';`,
			`ALTER TABLE diagrams ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';`,
			`CREATE INDEX idx_history_created_at ON diagrams(created_at);`,
			`CREATE INDEX idx_history_updated_at ON diagrams(updated_at);`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	}},
}

// Open opens (or creates) the mirror store under dataDir and applies any
// pending migrations.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading history schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning history migration %d: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("history migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording history migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing history migration %d: %w", m.version, err)
		}
	}
	return nil
}

// Close releases the underlying database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing history store: %w", err)
	}
	return nil
}

// Get returns the entry for a diagram id, or ErrNotFound.
func (s *Store) Get(id string) (*types.HistoryEntry, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(
		`SELECT id, uid, metadata, created_at, updated_at FROM diagrams WHERE id = ?`, id,
	)
	return scanEntry(row.Scan)
}

// Add inserts a new entry.
func (s *Store) Add(e *types.HistoryEntry) error {
	if e == nil {
		return types.ErrInvalidData
	}
	if e.ID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`INSERT INTO diagrams (id, uid, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UID, e.Metadata,
		e.CreatedAt.UTC().Format(timeFormat), e.UpdatedAt.UTC().Format(timeFormat),
	); err != nil {
		return fmt.Errorf("inserting history entry %s: %w", e.ID, err)
	}
	return nil
}

// Update overwrites an entry's metadata and updated timestamp in place.
// The owner identity and creation timestamp are preserved.
func (s *Store) Update(id, metadata string, updatedAt time.Time) error {
	if id == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`UPDATE diagrams SET metadata = ?, updated_at = ? WHERE id = ?`,
		metadata, updatedAt.UTC().Format(timeFormat), id,
	); err != nil {
		return fmt.Errorf("updating history entry %s: %w", id, err)
	}
	return nil
}

// Delete removes an entry. Deleting a nonexistent entry is a no-op.
func (s *Store) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(`DELETE FROM diagrams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting history entry %s: %w", id, err)
	}
	return nil
}

// ListByUID returns all entries owned by the given obfuscated identity, in
// insertion order.
func (s *Store) ListByUID(uid string) ([]*types.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT id, uid, metadata, created_at, updated_at FROM diagrams WHERE uid = ? ORDER BY rowid`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history entries: %w", err)
	}
	defer rows.Close()

	entries := []*types.HistoryEntry{}
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history entries: %w", err)
	}
	return entries, nil
}

func scanEntry(scan func(dest ...any) error) (*types.HistoryEntry, error) {
	var e types.HistoryEntry
	var createdAt, updatedAt string
	err := scan(&e.ID, &e.UID, &e.Metadata, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning history entry: %w", err)
	}
	if createdAt != "" {
		if e.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parsing history created_at: %w", err)
		}
	}
	if updatedAt != "" {
		if e.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
			return nil, fmt.Errorf("parsing history updated_at: %w", err)
		}
	}
	return &e, nil
}
