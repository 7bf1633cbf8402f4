package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObfuscateRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain", "alice"},
		{"json", `{"id":"d1","name":"inventory"}`},
		{"unicode", "schéma Ünïcode ☃"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Obfuscate(tt.input)
			decoded, err := Deobfuscate(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestDeobfuscateInvalid(t *testing.T) {
	_, err := Deobfuscate("not base64!!!")
	assert.Error(t, err)
}

func TestDiagramJSONRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	d := &Diagram{
		ID:           "d1",
		Name:         "inventory",
		DatabaseType: DatabaseTypePostgreSQL,
		CreatedAt:    created,
		UpdatedAt:    updated,
		Tables: []*Table{
			{
				ID:        "t1",
				DiagramID: "d1",
				Name:      "products",
				Fields: []Field{
					{ID: "f1", Name: "id", Type: FieldType{ID: "uuid", Name: "uuid"}, PrimaryKey: true},
					{ID: "f2", Name: "notes", Type: FieldType{ID: "text", Name: "text"}, Nullable: true},
				},
				CreatedAt: created,
			},
		},
		Relationships: []*Relationship{
			{
				ID: "r1", DiagramID: "d1", Name: "fk_products",
				SourceTableID: "t1", SourceFieldID: "f1",
				TargetTableID: "t2", TargetFieldID: "f9",
				SourceCardinality: CardinalityOne, TargetCardinality: CardinalityMany,
				CreatedAt: created,
			},
		},
		Dependencies: []*Dependency{
			{ID: "p1", DiagramID: "d1", TableID: "t1", DependentTableID: "t2", CreatedAt: created},
		},
	}

	data, err := DiagramToJSON(d)
	require.NoError(t, err)

	got, err := DiagramFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDiagramJSONDeterministic(t *testing.T) {
	d := &Diagram{
		ID:           "d1",
		Name:         "inventory",
		DatabaseType: DatabaseTypeMySQL,
		CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
	}

	first, err := DiagramToJSON(d)
	require.NoError(t, err)
	second, err := DiagramToJSON(d)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiagramFromJSONRestoresChildOwnership(t *testing.T) {
	// Child rows never serialize their diagram id; decoding re-derives it
	// from the parent.
	data := `{"id":"d7","name":"n","databaseType":"generic",` +
		`"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-01T10:00:00Z",` +
		`"tables":[{"id":"t1","name":"a","x":0,"y":0,"fields":[],"indexes":[],"color":"","isView":false,"createdAt":"2024-03-01T10:00:00Z"}]}`

	d, err := DiagramFromJSON(data)
	require.NoError(t, err)
	require.Len(t, d.Tables, 1)
	assert.Equal(t, "d7", d.Tables[0].DiagramID)
}
