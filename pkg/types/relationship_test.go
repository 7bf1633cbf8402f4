package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineCardinalities(t *testing.T) {
	tests := []struct {
		name       string
		legacyType string
		wantSource Cardinality
		wantTarget Cardinality
	}{
		{"one to one", "one_to_one", CardinalityOne, CardinalityOne},
		{"one to many", "one_to_many", CardinalityOne, CardinalityMany},
		{"many to one", "many_to_one", CardinalityMany, CardinalityOne},
		{"many to many", "many_to_many", CardinalityMany, CardinalityMany},
		{"empty falls back to one to one", "", CardinalityOne, CardinalityOne},
		{"unknown falls back to one to one", "some_future_type", CardinalityOne, CardinalityOne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, target := DetermineCardinalities(tt.legacyType)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}
