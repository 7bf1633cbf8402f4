package storage

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// AddRelationship inserts a relationship and refreshes its diagram's mirror
// entry.
func (s *Service) AddRelationship(r *types.Relationship) error {
	if r == nil {
		return types.ErrInvalidData
	}
	if err := s.store.AddRelationship(r); err != nil {
		return err
	}
	return s.syncDiagram(r.DiagramID)
}

// GetRelationship returns one relationship of a diagram.
func (s *Service) GetRelationship(id, diagramID string) (*types.Relationship, error) {
	return s.store.GetRelationship(id, diagramID)
}

// ListRelationships returns a diagram's relationships sorted by name,
// case-insensitively.
func (s *Service) ListRelationships(diagramID string) ([]*types.Relationship, error) {
	rels, err := s.store.ListRelationships(diagramID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rels, func(i, j int) bool {
		return strings.ToLower(rels[i].Name) < strings.ToLower(rels[j].Name)
	})
	return rels, nil
}

// UpdateRelationship patches a relationship, then re-reads it to find the
// owning diagram for the mirror refresh. Returns ErrVanished if the
// relationship disappeared between the patch and the re-read.
func (s *Service) UpdateRelationship(id string, patch types.RelationshipPatch) error {
	if err := s.store.UpdateRelationship(id, patch); err != nil {
		return err
	}
	r, err := requireCurrent(s.store.GetRelationshipByID(id))
	if err != nil {
		return err
	}
	return s.syncDiagram(r.DiagramID)
}

// DeleteRelationship removes one relationship of a diagram and refreshes the
// mirror.
func (s *Service) DeleteRelationship(id, diagramID string) error {
	if err := s.store.DeleteRelationship(id, diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}

// DeleteDiagramRelationships removes every relationship of a diagram and
// refreshes the mirror.
func (s *Service) DeleteDiagramRelationships(diagramID string) error {
	if err := s.store.DeleteDiagramRelationships(diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}
