package types

import "time"

// FieldType describes a column's data type. The id is derived from the
// display name by replacing spaces with underscores ("double precision"
// becomes "double_precision").
type FieldType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field is a single column of a table. The ordered field list is stored
// embedded in its table row, not as a collection of its own.
type Field struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	Nullable   bool      `json:"nullable"`
	PrimaryKey bool      `json:"primaryKey"`
	Unique     bool      `json:"unique"`
	Comment    string    `json:"comment,omitempty"`
}

// Index is a named index over a set of field ids.
type Index struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FieldIDs []string `json:"fieldIds"`
	Unique   bool     `json:"unique"`
}

// Table is a table (or view) belonging to a diagram.
type Table struct {
	ID                 string    `json:"id"`
	DiagramID          string    `json:"-"`
	Name               string    `json:"name"`
	Schema             string    `json:"schema,omitempty"`
	X                  float64   `json:"x"`
	Y                  float64   `json:"y"`
	Fields             []Field   `json:"fields"`
	Indexes            []Index   `json:"indexes"`
	Color              string    `json:"color"`
	Width              float64   `json:"width,omitempty"`
	Comment            string    `json:"comment,omitempty"`
	IsView             bool      `json:"isView"`
	IsMaterializedView bool      `json:"isMaterializedView,omitempty"`
	Order              int       `json:"order,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// TablePatch holds partial table attributes for an update. Nil fields are
// left unchanged; non-nil slices replace the stored sequence wholesale.
type TablePatch struct {
	Name               *string
	Schema             *string
	X                  *float64
	Y                  *float64
	Fields             []Field
	Indexes            []Index
	Color              *string
	Width              *float64
	Comment            *string
	IsView             *bool
	IsMaterializedView *bool
	Order              *int
}
