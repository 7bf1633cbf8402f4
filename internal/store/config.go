package store

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// configRowID is the fixed primary key of the singleton config record.
const configRowID = 1

// ensureConfig creates the singleton config record on first open,
// defaulting the default diagram to the first stored diagram, if any.
func ensureConfig(db *sql.DB) error {
	var one int
	err := db.QueryRow(`SELECT 1 FROM config WHERE id = ?`, configRowID).Scan(&one)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking config: %w", err)
	}

	defaultID := ""
	err = db.QueryRow(`SELECT id FROM diagrams ORDER BY rowid LIMIT 1`).Scan(&defaultID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("finding first diagram: %w", err)
	}

	if _, err := db.Exec(
		`INSERT INTO config (id, default_diagram_id) VALUES (?, ?)`, configRowID, defaultID,
	); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	return nil
}

// GetConfig returns the singleton config record.
func (s *Store) GetConfig() (*types.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	var c types.Config
	err := s.db.QueryRow(
		`SELECT default_diagram_id FROM config WHERE id = ?`, configRowID,
	).Scan(&c.DefaultDiagramID)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return &c, nil
}

// UpdateConfig patches the singleton config record.
func (s *Store) UpdateConfig(patch types.ConfigPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if patch.DefaultDiagramID == nil {
		return nil
	}
	if _, err := s.db.Exec(
		`UPDATE config SET default_diagram_id = ? WHERE id = ?`,
		*patch.DefaultDiagramID, configRowID,
	); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	return nil
}
