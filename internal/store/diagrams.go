package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

const diagramColumns = `id, name, database_type, database_edition, created_at, updated_at, saved_at`

// AddDiagram inserts a diagram row. Child entities are added through their
// own collections; the diagram row is only the shell.
func (s *Store) AddDiagram(d *types.Diagram) error {
	if d == nil {
		return types.ErrInvalidData
	}
	if d.ID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	var savedAt sql.NullString
	if d.SavedAt != nil {
		savedAt = sql.NullString{String: formatTime(*d.SavedAt), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO diagrams (id, name, database_type, database_edition, created_at, updated_at, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, string(d.DatabaseType), d.DatabaseEdition,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt), savedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting diagram %s: %w", d.ID, err)
	}
	return nil
}

// GetDiagram returns the diagram shell for id, or ErrNotFound.
func (s *Store) GetDiagram(id string) (*types.Diagram, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(`SELECT `+diagramColumns+` FROM diagrams WHERE id = ?`, id)
	return scanDiagram(row.Scan)
}

// ListDiagrams returns all diagram shells in insertion order.
func (s *Store) ListDiagrams() ([]*types.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	rows, err := s.db.Query(`SELECT ` + diagramColumns + ` FROM diagrams ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing diagrams: %w", err)
	}
	defer rows.Close()

	diagrams := []*types.Diagram{}
	for rows.Next() {
		d, err := scanDiagram(rows.Scan)
		if err != nil {
			return nil, err
		}
		diagrams = append(diagrams, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagrams: %w", err)
	}
	return diagrams, nil
}

// UpdateDiagram patches the diagram row. Patching a nonexistent id is a
// no-op, matching the underlying engine's update semantics.
func (s *Store) UpdateDiagram(id string, patch types.DiagramPatch) error {
	if id == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	var sets []string
	var args []any
	if patch.ID != nil {
		sets = append(sets, "id = ?")
		args = append(args, *patch.ID)
	}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.DatabaseType != nil {
		sets = append(sets, "database_type = ?")
		args = append(args, string(*patch.DatabaseType))
	}
	if patch.DatabaseEdition != nil {
		sets = append(sets, "database_edition = ?")
		args = append(args, *patch.DatabaseEdition)
	}
	if patch.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(*patch.UpdatedAt))
	}
	if patch.SavedAt != nil {
		sets = append(sets, "saved_at = ?")
		args = append(args, formatTime(*patch.SavedAt))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := s.db.Exec(
		`UPDATE diagrams SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating diagram %s: %w", id, err)
	}
	return nil
}

// DeleteDiagram removes the diagram row and all child rows (tables,
// relationships, dependencies) in a single transaction. Deleting a
// nonexistent diagram is a no-op.
func (s *Store) DeleteDiagram(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning diagram delete: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM diagram_tables WHERE diagram_id = ?`,
		`DELETE FROM relationships WHERE diagram_id = ?`,
		`DELETE FROM dependencies WHERE diagram_id = ?`,
		`DELETE FROM diagrams WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("deleting diagram %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing diagram delete: %w", err)
	}
	return nil
}

// ReassignDiagramChildren rewrites the diagram foreign key of every child
// row from oldID to newID. Used when a diagram is renamed to a new id.
func (s *Store) ReassignDiagramChildren(oldID, newID string) error {
	if oldID == "" || newID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reassign: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"diagram_tables", "relationships", "dependencies"} {
		if _, err := tx.Exec(
			`UPDATE `+table+` SET diagram_id = ? WHERE diagram_id = ?`, newID, oldID,
		); err != nil {
			return fmt.Errorf("reassigning %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reassign: %w", err)
	}
	return nil
}

func scanDiagram(scan func(dest ...any) error) (*types.Diagram, error) {
	var d types.Diagram
	var dbType, createdAt, updatedAt string
	var savedAt sql.NullString
	err := scan(&d.ID, &d.Name, &dbType, &d.DatabaseEdition, &createdAt, &updatedAt, &savedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning diagram: %w", err)
	}
	d.DatabaseType = types.DatabaseType(dbType)
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if savedAt.Valid {
		t, err := parseTime(savedAt.String)
		if err != nil {
			return nil, err
		}
		d.SavedAt = &t
	}
	return &d, nil
}
