package types

import "time"

// Dependency models a view-on-table (or view-on-view) dependency edge:
// the dependent table relies on the referenced table.
type Dependency struct {
	ID               string    `json:"id"`
	DiagramID        string    `json:"-"`
	Schema           string    `json:"schema,omitempty"`
	TableID          string    `json:"tableId"`
	DependentSchema  string    `json:"dependentSchema,omitempty"`
	DependentTableID string    `json:"dependentTableId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DependencyPatch holds partial dependency attributes for an update.
type DependencyPatch struct {
	Schema           *string
	TableID          *string
	DependentSchema  *string
	DependentTableID *string
}
