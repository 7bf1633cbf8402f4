package types

import "time"

// DatabaseType identifies the database engine a diagram models.
type DatabaseType string

// Supported database types.
const (
	DatabaseTypeGeneric     DatabaseType = "generic"
	DatabaseTypePostgreSQL  DatabaseType = "postgresql"
	DatabaseTypeMySQL       DatabaseType = "mysql"
	DatabaseTypeMariaDB     DatabaseType = "mariadb"
	DatabaseTypeSQLServer   DatabaseType = "sql_server"
	DatabaseTypeSQLite      DatabaseType = "sqlite"
	DatabaseTypeClickHouse  DatabaseType = "clickhouse"
	DatabaseTypeCockroachDB DatabaseType = "cockroachdb"
)

// Diagram is a named schema visualization project. Tables, Relationships and
// Dependencies are stored as separate collections keyed by DiagramID; the
// slices here are populated only when a read requests eager loading.
type Diagram struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	DatabaseType    DatabaseType `json:"databaseType"`
	DatabaseEdition string       `json:"databaseEdition,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`

	// SavedAt is set only when the diagram has been persisted remotely.
	SavedAt *time.Time `json:"savedAt,omitempty"`

	Tables        []*Table        `json:"tables,omitempty"`
	Relationships []*Relationship `json:"relationships,omitempty"`
	Dependencies  []*Dependency   `json:"dependencies,omitempty"`
}

// DiagramPatch holds partial diagram attributes for an update. Nil fields
// are left unchanged. Setting ID renames the diagram; the façade cascades
// the new id into all child rows.
type DiagramPatch struct {
	ID              *string
	Name            *string
	DatabaseType    *DatabaseType
	DatabaseEdition *string
	UpdatedAt       *time.Time
	SavedAt         *time.Time
}

// Config is the singleton configuration record of the local store (row id 1).
type Config struct {
	DefaultDiagramID string `json:"defaultDiagramId"`
}

// ConfigPatch holds partial config attributes for an update.
type ConfigPatch struct {
	DefaultDiagramID *string
}
