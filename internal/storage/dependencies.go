package storage

import (
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// AddDependency inserts a dependency and refreshes its diagram's mirror
// entry.
func (s *Service) AddDependency(d *types.Dependency) error {
	if d == nil {
		return types.ErrInvalidData
	}
	if err := s.store.AddDependency(d); err != nil {
		return err
	}
	return s.syncDiagram(d.DiagramID)
}

// GetDependency returns one dependency of a diagram.
func (s *Service) GetDependency(id, diagramID string) (*types.Dependency, error) {
	return s.store.GetDependency(id, diagramID)
}

// ListDependencies returns all dependencies of a diagram in insertion order.
func (s *Service) ListDependencies(diagramID string) ([]*types.Dependency, error) {
	return s.store.ListDependencies(diagramID)
}

// UpdateDependency patches a dependency, then re-reads it to find the owning
// diagram for the mirror refresh. Returns ErrVanished if the dependency
// disappeared between the patch and the re-read.
func (s *Service) UpdateDependency(id string, patch types.DependencyPatch) error {
	if err := s.store.UpdateDependency(id, patch); err != nil {
		return err
	}
	d, err := requireCurrent(s.store.GetDependencyByID(id))
	if err != nil {
		return err
	}
	return s.syncDiagram(d.DiagramID)
}

// DeleteDependency removes one dependency of a diagram and refreshes the
// mirror.
func (s *Service) DeleteDependency(id, diagramID string) error {
	if err := s.store.DeleteDependency(id, diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}

// DeleteDiagramDependencies removes every dependency of a diagram and
// refreshes the mirror.
func (s *Service) DeleteDiagramDependencies(diagramID string) error {
	if err := s.store.DeleteDiagramDependencies(diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}
