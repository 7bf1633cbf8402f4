package types

import "time"

// Cardinality classifies one end of a relationship.
type Cardinality string

// Relationship end cardinalities.
const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// Legacy combined relationship type values, retired by store migration 6.
const (
	legacyOneToOne   = "one_to_one"
	legacyOneToMany  = "one_to_many"
	legacyManyToOne  = "many_to_one"
	legacyManyToMany = "many_to_many"
)

// Relationship is a foreign-key edge between two table fields.
type Relationship struct {
	ID                string      `json:"id"`
	DiagramID         string      `json:"-"`
	Name              string      `json:"name"`
	SourceSchema      string      `json:"sourceSchema,omitempty"`
	SourceTableID     string      `json:"sourceTableId"`
	SourceFieldID     string      `json:"sourceFieldId"`
	TargetSchema      string      `json:"targetSchema,omitempty"`
	TargetTableID     string      `json:"targetTableId"`
	TargetFieldID     string      `json:"targetFieldId"`
	SourceCardinality Cardinality `json:"sourceCardinality"`
	TargetCardinality Cardinality `json:"targetCardinality"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// RelationshipPatch holds partial relationship attributes for an update.
type RelationshipPatch struct {
	Name              *string
	SourceSchema      *string
	SourceTableID     *string
	SourceFieldID     *string
	TargetSchema      *string
	TargetTableID     *string
	TargetFieldID     *string
	SourceCardinality *Cardinality
	TargetCardinality *Cardinality
}

// DetermineCardinalities maps a legacy combined relationship type onto the
// per-end cardinality pair. Unrecognized values fall back to one-to-one,
// matching how pre-migration data was interpreted.
func DetermineCardinalities(legacyType string) (source, target Cardinality) {
	switch legacyType {
	case legacyOneToMany:
		return CardinalityOne, CardinalityMany
	case legacyManyToOne:
		return CardinalityMany, CardinalityOne
	case legacyManyToMany:
		return CardinalityMany, CardinalityMany
	case legacyOneToOne:
		return CardinalityOne, CardinalityOne
	default:
		return CardinalityOne, CardinalityOne
	}
}
