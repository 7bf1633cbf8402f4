package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

const tableColumns = `id, diagram_id, name, schema_name, x, y, fields, indexes, color, width, comment, is_view, is_materialized_view, display_order, created_at`

// AddTable inserts a table row under its diagram.
func (s *Store) AddTable(t *types.Table) error {
	if t == nil {
		return types.ErrInvalidData
	}
	if t.ID == "" || t.DiagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	fields, indexes, err := encodeTableJSON(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO diagram_tables (`+tableColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.DiagramID, t.Name, t.Schema, t.X, t.Y, fields, indexes,
		t.Color, t.Width, t.Comment, boolInt(t.IsView), boolInt(t.IsMaterializedView),
		t.Order, formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting table %s: %w", t.ID, err)
	}
	return nil
}

// GetTable returns the table matching both id and diagram id, or ErrNotFound.
func (s *Store) GetTable(id, diagramID string) (*types.Table, error) {
	if id == "" || diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(
		`SELECT `+tableColumns+` FROM diagram_tables WHERE id = ? AND diagram_id = ?`,
		id, diagramID,
	)
	return scanTable(row.Scan)
}

// GetTableByID returns the table with the given primary key, or ErrNotFound.
func (s *Store) GetTableByID(id string) (*types.Table, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	row := s.db.QueryRow(`SELECT `+tableColumns+` FROM diagram_tables WHERE id = ?`, id)
	return scanTable(row.Scan)
}

// ListTables returns all tables of a diagram in insertion order.
func (s *Store) ListTables(diagramID string) ([]*types.Table, error) {
	if diagramID == "" {
		return nil, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT `+tableColumns+` FROM diagram_tables WHERE diagram_id = ? ORDER BY rowid`,
		diagramID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	tables := []*types.Table{}
	for rows.Next() {
		t, err := scanTable(rows.Scan)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return tables, nil
}

// UpdateTable patches a table row by primary key. Patching a nonexistent id
// is a no-op.
func (s *Store) UpdateTable(id string, patch types.TablePatch) error {
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
	if patch.Schema != nil {
		sets = append(sets, "schema_name = ?")
		args = append(args, *patch.Schema)
	}
	if patch.X != nil {
		sets = append(sets, "x = ?")
		args = append(args, *patch.X)
	}
	if patch.Y != nil {
		sets = append(sets, "y = ?")
		args = append(args, *patch.Y)
	}
	if patch.Fields != nil {
		data, err := json.Marshal(patch.Fields)
		if err != nil {
			return fmt.Errorf("marshaling fields: %w", err)
		}
		sets = append(sets, "fields = ?")
		args = append(args, string(data))
	}
	if patch.Indexes != nil {
		data, err := json.Marshal(patch.Indexes)
		if err != nil {
			return fmt.Errorf("marshaling indexes: %w", err)
		}
		sets = append(sets, "indexes = ?")
		args = append(args, string(data))
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.Width != nil {
		sets = append(sets, "width = ?")
		args = append(args, *patch.Width)
	}
	if patch.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, *patch.Comment)
	}
	if patch.IsView != nil {
		sets = append(sets, "is_view = ?")
		args = append(args, boolInt(*patch.IsView))
	}
	if patch.IsMaterializedView != nil {
		sets = append(sets, "is_materialized_view = ?")
		args = append(args, boolInt(*patch.IsMaterializedView))
	}
	if patch.Order != nil {
		sets = append(sets, "display_order = ?")
		args = append(args, *patch.Order)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := s.db.Exec(
		`UPDATE diagram_tables SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating table %s: %w", id, err)
	}
	return nil
}

// PutTable upserts a full table row.
func (s *Store) PutTable(t *types.Table) error {
	if t == nil {
		return types.ErrInvalidData
	}
	if t.ID == "" || t.DiagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	fields, indexes, err := encodeTableJSON(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO diagram_tables (`+tableColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     diagram_id = excluded.diagram_id,
		     name = excluded.name,
		     schema_name = excluded.schema_name,
		     x = excluded.x,
		     y = excluded.y,
		     fields = excluded.fields,
		     indexes = excluded.indexes,
		     color = excluded.color,
		     width = excluded.width,
		     comment = excluded.comment,
		     is_view = excluded.is_view,
		     is_materialized_view = excluded.is_materialized_view,
		     display_order = excluded.display_order`,
		t.ID, t.DiagramID, t.Name, t.Schema, t.X, t.Y, fields, indexes,
		t.Color, t.Width, t.Comment, boolInt(t.IsView), boolInt(t.IsMaterializedView),
		t.Order, formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting table %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTable removes the table matching both id and diagram id.
func (s *Store) DeleteTable(id, diagramID string) error {
	if id == "" || diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM diagram_tables WHERE id = ? AND diagram_id = ?`, id, diagramID,
	); err != nil {
		return fmt.Errorf("deleting table %s: %w", id, err)
	}
	return nil
}

// DeleteDiagramTables removes every table of a diagram.
func (s *Store) DeleteDiagramTables(diagramID string) error {
	if diagramID == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}

	if _, err := s.db.Exec(
		`DELETE FROM diagram_tables WHERE diagram_id = ?`, diagramID,
	); err != nil {
		return fmt.Errorf("deleting tables of diagram %s: %w", diagramID, err)
	}
	return nil
}

func encodeTableJSON(t *types.Table) (fields, indexes string, err error) {
	f := t.Fields
	if f == nil {
		f = []types.Field{}
	}
	fb, err := json.Marshal(f)
	if err != nil {
		return "", "", fmt.Errorf("marshaling fields of table %s: %w", t.ID, err)
	}
	ix := t.Indexes
	if ix == nil {
		ix = []types.Index{}
	}
	ib, err := json.Marshal(ix)
	if err != nil {
		return "", "", fmt.Errorf("marshaling indexes of table %s: %w", t.ID, err)
	}
	return string(fb), string(ib), nil
}

func scanTable(scan func(dest ...any) error) (*types.Table, error) {
	var t types.Table
	var fields, indexes, createdAt string
	var isView, isMaterializedView int
	err := scan(&t.ID, &t.DiagramID, &t.Name, &t.Schema, &t.X, &t.Y, &fields, &indexes,
		&t.Color, &t.Width, &t.Comment, &isView, &isMaterializedView, &t.Order, &createdAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning table: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields of table %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(indexes), &t.Indexes); err != nil {
		return nil, fmt.Errorf("parsing indexes of table %s: %w", t.ID, err)
	}
	t.IsView = isView != 0
	t.IsMaterializedView = isMaterializedView != 0
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
