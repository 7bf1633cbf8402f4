package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

const dependencyColumns = `id, diagram_id, schema_name, table_id, dependent_schema, dependent_table_id, created_at`

// AddDependency inserts a dependency row under its diagram.
func (s *Store) AddDependency(d *types.Dependency) error {
	if d == nil {
		return types.ErrInvalidData
	}
	if d.ID == "" || d.DiagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO dependencies (`+dependencyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DiagramID, d.Schema, d.TableID, d.DependentSchema,
		d.DependentTableID, formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency %s: %w", d.ID, err)
	}
	return nil
}

// GetDependency returns the dependency matching both id and diagram id.
func (s *Store) GetDependency(id, diagramID string) (*types.Dependency, error) {
	if id == "" || diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(
		`SELECT `+dependencyColumns+` FROM dependencies WHERE id = ? AND diagram_id = ?`,
		id, diagramID,
	)
	return scanDependency(row.Scan)
}

// GetDependencyByID returns the dependency with the given primary key.
func (s *Store) GetDependencyByID(id string) (*types.Dependency, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(`SELECT `+dependencyColumns+` FROM dependencies WHERE id = ?`, id)
	return scanDependency(row.Scan)
}

// ListDependencies returns all dependencies of a diagram in insertion order.
func (s *Store) ListDependencies(diagramID string) ([]*types.Dependency, error) {
	if diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT `+dependencyColumns+` FROM dependencies WHERE diagram_id = ? ORDER BY rowid`,
		diagramID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	deps := []*types.Dependency{}
	for rows.Next() {
		d, err := scanDependency(rows.Scan)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

// UpdateDependency patches a dependency row by primary key.
func (s *Store) UpdateDependency(id string, patch types.DependencyPatch) error {
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
	if patch.Schema != nil {
		sets = append(sets, "schema_name = ?")
		args = append(args, *patch.Schema)
	}
	if patch.TableID != nil {
		sets = append(sets, "table_id = ?")
		args = append(args, *patch.TableID)
	}
	if patch.DependentSchema != nil {
		sets = append(sets, "dependent_schema = ?")
		args = append(args, *patch.DependentSchema)
	}
	if patch.DependentTableID != nil {
		sets = append(sets, "dependent_table_id = ?")
		args = append(args, *patch.DependentTableID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := s.db.Exec(
		`UPDATE dependencies SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating dependency %s: %w", id, err)
	}
	return nil
}

// DeleteDependency removes the dependency matching both id and diagram id.
func (s *Store) DeleteDependency(id, diagramID string) error {
	if id == "" || diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM dependencies WHERE id = ? AND diagram_id = ?`, id, diagramID,
	); err != nil {
		return fmt.Errorf("deleting dependency %s: %w", id, err)
	}
	return nil
}

// DeleteDiagramDependencies removes every dependency of a diagram.
func (s *Store) DeleteDiagramDependencies(diagramID string) error {
	if diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM dependencies WHERE diagram_id = ?`, diagramID,
	); err != nil {
		return fmt.Errorf("deleting dependencies of diagram %s: %w", diagramID, err)
	}
	return nil
}

func scanDependency(scan func(dest ...any) error) (*types.Dependency, error) {
	var d types.Dependency
	var createdAt string
	err := scan(&d.ID, &d.DiagramID, &d.Schema, &d.TableID, &d.DependentSchema,
		&d.DependentTableID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &d, nil
}
