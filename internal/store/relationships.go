package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

const relationshipColumns = `id, diagram_id, name, source_schema, source_table_id, source_field_id, target_schema, target_table_id, target_field_id, source_cardinality, target_cardinality, created_at`

// AddRelationship inserts a relationship row under its diagram.
func (s *Store) AddRelationship(r *types.Relationship) error {
	if r == nil {
		return types.ErrInvalidData
	}
	if r.ID == "" || r.DiagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO relationships (`+relationshipColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.DiagramID, r.Name, r.SourceSchema, r.SourceTableID, r.SourceFieldID,
		r.TargetSchema, r.TargetTableID, r.TargetFieldID,
		string(r.SourceCardinality), string(r.TargetCardinality), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting relationship %s: %w", r.ID, err)
	}
	return nil
}

// GetRelationship returns the relationship matching both id and diagram id.
func (s *Store) GetRelationship(id, diagramID string) (*types.Relationship, error) {
	if id == "" || diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(
		`SELECT `+relationshipColumns+` FROM relationships WHERE id = ? AND diagram_id = ?`,
		id, diagramID,
	)
	return scanRelationship(row.Scan)
}

// GetRelationshipByID returns the relationship with the given primary key.
func (s *Store) GetRelationshipByID(id string) (*types.Relationship, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(`SELECT `+relationshipColumns+` FROM relationships WHERE id = ?`, id)
	return scanRelationship(row.Scan)
}

// ListRelationships returns all relationships of a diagram in insertion
// order. Callers that need name ordering sort on top of this.
func (s *Store) ListRelationships(diagramID string) ([]*types.Relationship, error) {
	if diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT `+relationshipColumns+` FROM relationships WHERE diagram_id = ? ORDER BY rowid`,
		diagramID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	defer rows.Close()

	rels := []*types.Relationship{}
	for rows.Next() {
		r, err := scanRelationship(rows.Scan)
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relationships: %w", err)
	}
	return rels, nil
}

// UpdateRelationship patches a relationship row by primary key.
func (s *Store) UpdateRelationship(id string, patch types.RelationshipPatch) error {
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
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.SourceSchema != nil {
		sets = append(sets, "source_schema = ?")
		args = append(args, *patch.SourceSchema)
	}
	if patch.SourceTableID != nil {
		sets = append(sets, "source_table_id = ?")
		args = append(args, *patch.SourceTableID)
	}
	if patch.SourceFieldID != nil {
		sets = append(sets, "source_field_id = ?")
		args = append(args, *patch.SourceFieldID)
	}
	if patch.TargetSchema != nil {
		sets = append(sets, "target_schema = ?")
		args = append(args, *patch.TargetSchema)
	}
	if patch.TargetTableID != nil {
		sets = append(sets, "target_table_id = ?")
		args = append(args, *patch.TargetTableID)
	}
	if patch.TargetFieldID != nil {
		sets = append(sets, "target_field_id = ?")
		args = append(args, *patch.TargetFieldID)
	}
	if patch.SourceCardinality != nil {
		sets = append(sets, "source_cardinality = ?")
		args = append(args, string(*patch.SourceCardinality))
	}
	if patch.TargetCardinality != nil {
		sets = append(sets, "target_cardinality = ?")
		args = append(args, string(*patch.TargetCardinality))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := s.db.Exec(
		`UPDATE relationships SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating relationship %s: %w", id, err)
	}
	return nil
}

// DeleteRelationship removes the relationship matching both id and diagram id.
func (s *Store) DeleteRelationship(id, diagramID string) error {
	if id == "" || diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM relationships WHERE id = ? AND diagram_id = ?`, id, diagramID,
	); err != nil {
		return fmt.Errorf("deleting relationship %s: %w", id, err)
	}
	return nil
}

// DeleteDiagramRelationships removes every relationship of a diagram.
func (s *Store) DeleteDiagramRelationships(diagramID string) error {
	if diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM relationships WHERE diagram_id = ?`, diagramID,
	); err != nil {
		return fmt.Errorf("deleting relationships of diagram %s: %w", diagramID, err)
	}
	return nil
}

func scanRelationship(scan func(dest ...any) error) (*types.Relationship, error) {
	var r types.Relationship
	var sourceCard, targetCard, createdAt string
	err := scan(&r.ID, &r.DiagramID, &r.Name, &r.SourceSchema, &r.SourceTableID,
		&r.SourceFieldID, &r.TargetSchema, &r.TargetTableID, &r.TargetFieldID,
		&sourceCard, &targetCard, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}
	r.SourceCardinality = types.Cardinality(sourceCard)
	r.TargetCardinality = types.Cardinality(targetCard)
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}
