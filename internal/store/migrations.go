package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// migration is one step of the schema evolution pipeline. Steps are applied
// in version order, each in its own transaction, exactly once: the store's
// PRAGMA user_version records the last applied step, so reopening a store
// never reapplies transforms below it.
type migration struct {
	version int
	name    string
	up      func(tx *sql.Tx) error
}

// migrations is the full ordered pipeline. Version 1 creates the legacy
// shape (combined rel_type column, field type as a plain string inside the
// fields JSON); later steps bring stored rows to the current shape.
var migrations = []migration{
	{1, "base collections", migrateBase},
	{2, "field type descriptor", migrateFieldTypeDescriptor},
	{3, "diagram database edition", migrateDatabaseEdition},
	{4, "table comment", migrateTableComment},
	{5, "schema columns", migrateSchemaColumns},
	{6, "relationship cardinalities", migrateCardinalities},
	{7, "dependencies collection", migrateDependencies},
	{8, "view flags and order", migrateViewFlags},
	{9, "nullable coercion", migrateNullableCoercion},
}

// schemaVersion is the version a fully migrated store reports.
var schemaVersion = migrations[len(migrations)-1].version

// migrate brings the database to the current schema version.
func migrate(db *sql.DB) error {
	return migrateTo(db, schemaVersion)
}

// migrateTo applies pending migrations up to and including target. A failed
// step rolls back and aborts; nothing past the failure is attempted.
func migrateTo(db *sql.DB, target int) error {
	current, err := userVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current || m.version > target {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func execAll(tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

func migrateBase(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE diagrams (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    database_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    saved_at TEXT
);`,
		`CREATE INDEX idx_diagrams_name ON diagrams(name);`,
		`CREATE TABLE diagram_tables (
    id TEXT PRIMARY KEY,
    diagram_id TEXT NOT NULL,
    name TEXT NOT NULL,
    x REAL NOT NULL DEFAULT 0,
    y REAL NOT NULL DEFAULT 0,
    fields TEXT NOT NULL DEFAULT '[]',
    indexes TEXT NOT NULL DEFAULT '[]',
    color TEXT NOT NULL DEFAULT '',
    width REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`,
		`CREATE INDEX idx_diagram_tables_diagram ON diagram_tables(diagram_id);`,
		`CREATE TABLE relationships (
    id TEXT PRIMARY KEY,
    diagram_id TEXT NOT NULL,
    name TEXT NOT NULL,
    source_table_id TEXT NOT NULL,
    source_field_id TEXT NOT NULL,
    target_table_id TEXT NOT NULL,
    target_field_id TEXT NOT NULL,
    rel_type TEXT NOT NULL DEFAULT 'one_to_one',
    created_at TEXT NOT NULL
);`,
		`CREATE INDEX idx_relationships_diagram ON relationships(diagram_id);`,
		`CREATE TABLE config (
    id INTEGER PRIMARY KEY,
    default_diagram_id TEXT NOT NULL DEFAULT ''
);`,
	)
}

// migrateFieldTypeDescriptor rewrites every table's fields JSON, turning the
// plain string type into a {id, name} descriptor. The id is the name with
// spaces replaced by underscores.
func migrateFieldTypeDescriptor(tx *sql.Tx) error {
	return rewriteTableFields(tx, func(field map[string]any) bool {
		s, ok := field["type"].(string)
		if !ok {
			return false
		}
		field["type"] = map[string]any{
			"id":   strings.ReplaceAll(s, " ", "_"),
			"name": s,
		}
		return true
	})
}

func migrateDatabaseEdition(tx *sql.Tx) error {
	return execAll(tx,
		`ALTER TABLE diagrams ADD COLUMN database_edition TEXT NOT NULL DEFAULT '';`,
		`CREATE INDEX idx_diagrams_database_edition ON diagrams(database_edition);`,
	)
}

func migrateTableComment(tx *sql.Tx) error {
	return execAll(tx,
		`ALTER TABLE diagram_tables ADD COLUMN comment TEXT NOT NULL DEFAULT '';`,
		`CREATE INDEX idx_diagram_tables_comment ON diagram_tables(comment);`,
	)
}

func migrateSchemaColumns(tx *sql.Tx) error {
	return execAll(tx,
		`ALTER TABLE diagram_tables ADD COLUMN schema_name TEXT NOT NULL DEFAULT '';`,
		`CREATE INDEX idx_diagram_tables_schema ON diagram_tables(schema_name);`,
		`ALTER TABLE relationships ADD COLUMN source_schema TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE relationships ADD COLUMN target_schema TEXT NOT NULL DEFAULT '';`,
		`CREATE INDEX idx_relationships_source_schema ON relationships(source_schema);`,
		`CREATE INDEX idx_relationships_target_schema ON relationships(target_schema);`,
	)
}

// migrateCardinalities derives the per-end cardinality pair from the legacy
// combined rel_type, then drops the legacy column so the free-form value
// cannot reappear.
func migrateCardinalities(tx *sql.Tx) error {
	if err := execAll(tx,
		`ALTER TABLE relationships ADD COLUMN source_cardinality TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE relationships ADD COLUMN target_cardinality TEXT NOT NULL DEFAULT '';`,
	); err != nil {
		return err
	}

	rows, err := tx.Query(`SELECT id, rel_type FROM relationships`)
	if err != nil {
		return fmt.Errorf("reading relationships: %w", err)
	}
	type relRow struct {
		id      string
		relType string
	}
	var rels []relRow
	for rows.Next() {
		var r relRow
		if err := rows.Scan(&r.id, &r.relType); err != nil {
			rows.Close()
			return fmt.Errorf("scanning relationship: %w", err)
		}
		rels = append(rels, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating relationships: %w", err)
	}

	for _, r := range rels {
		source, target := types.DetermineCardinalities(r.relType)
		if _, err := tx.Exec(
			`UPDATE relationships SET source_cardinality = ?, target_cardinality = ? WHERE id = ?`,
			string(source), string(target), r.id,
		); err != nil {
			return fmt.Errorf("updating cardinalities for %s: %w", r.id, err)
		}
	}

	return execAll(tx, `ALTER TABLE relationships DROP COLUMN rel_type;`)
}

func migrateDependencies(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE dependencies (
    id TEXT PRIMARY KEY,
    diagram_id TEXT NOT NULL,
    schema_name TEXT NOT NULL DEFAULT '',
    table_id TEXT NOT NULL,
    dependent_schema TEXT NOT NULL DEFAULT '',
    dependent_table_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`,
		`CREATE INDEX idx_dependencies_diagram ON dependencies(diagram_id);`,
	)
}

func migrateViewFlags(tx *sql.Tx) error {
	return execAll(tx,
		`ALTER TABLE diagram_tables ADD COLUMN is_view INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE diagram_tables ADD COLUMN is_materialized_view INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE diagram_tables ADD COLUMN display_order INTEGER NOT NULL DEFAULT 0;`,
		`CREATE INDEX idx_diagram_tables_is_view ON diagram_tables(is_view);`,
		`CREATE INDEX idx_diagram_tables_is_materialized_view ON diagram_tables(is_materialized_view);`,
		`CREATE INDEX idx_diagram_tables_display_order ON diagram_tables(display_order);`,
	)
}

// migrateNullableCoercion rewrites fields JSON where legacy data stored the
// nullable flag as the string "true"/"false". Boolean values are untouched.
func migrateNullableCoercion(tx *sql.Tx) error {
	return rewriteTableFields(tx, func(field map[string]any) bool {
		s, ok := field["nullable"].(string)
		if !ok {
			return false
		}
		field["nullable"] = strings.EqualFold(s, "true")
		return true
	})
}

// rewriteTableFields applies a per-field transform to the fields JSON of
// every stored table, writing back only rows where the transform reported a
// change.
func rewriteTableFields(tx *sql.Tx, transform func(field map[string]any) bool) error {
	rows, err := tx.Query(`SELECT id, fields FROM diagram_tables`)
	if err != nil {
		return fmt.Errorf("reading tables: %w", err)
	}
	type tableRow struct {
		id     string
		fields string
	}
	var tables []tableRow
	for rows.Next() {
		var t tableRow
		if err := rows.Scan(&t.id, &t.fields); err != nil {
			rows.Close()
			return fmt.Errorf("scanning table: %w", err)
		}
		tables = append(tables, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tables: %w", err)
	}

	for _, t := range tables {
		var fields []map[string]any
		if err := json.Unmarshal([]byte(t.fields), &fields); err != nil {
			return fmt.Errorf("parsing fields of table %s: %w", t.id, err)
		}
		changed := false
		for _, f := range fields {
			if transform(f) {
				changed = true
			}
		}
		if !changed {
			continue
		}
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshaling fields of table %s: %w", t.id, err)
		}
		if _, err := tx.Exec(
			`UPDATE diagram_tables SET fields = ? WHERE id = ?`, string(data), t.id,
		); err != nil {
			return fmt.Errorf("rewriting fields of table %s: %w", t.id, err)
		}
	}
	return nil
}
