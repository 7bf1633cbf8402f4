package storage

import (
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// AddTable inserts a table and refreshes its diagram's mirror entry.
func (s *Service) AddTable(t *types.Table) error {
	if t == nil {
		return types.ErrInvalidData
	}
	if err := s.store.AddTable(t); err != nil {
		return err
	}
	return s.syncDiagram(t.DiagramID)
}

// GetTable returns one table of a diagram.
func (s *Service) GetTable(id, diagramID string) (*types.Table, error) {
	return s.store.GetTable(id, diagramID)
}

// ListTables returns all tables of a diagram in insertion order.
func (s *Service) ListTables(diagramID string) ([]*types.Table, error) {
	return s.store.ListTables(diagramID)
}

// UpdateTable patches a table, then re-reads it to find the owning diagram
// for the mirror refresh. Returns ErrVanished if the table disappeared
// between the patch and the re-read.
func (s *Service) UpdateTable(id string, patch types.TablePatch) error {
	if err := s.store.UpdateTable(id, patch); err != nil {
		return err
	}
	t, err := requireCurrent(s.store.GetTableByID(id))
	if err != nil {
		return err
	}
	return s.syncDiagram(t.DiagramID)
}

// PutTable inserts or replaces a table and refreshes its diagram's mirror
// entry.
func (s *Service) PutTable(t *types.Table) error {
	if t == nil {
		return types.ErrInvalidData
	}
	if err := s.store.PutTable(t); err != nil {
		return err
	}
	return s.syncDiagram(t.DiagramID)
}

// DeleteTable removes one table of a diagram and refreshes the mirror.
func (s *Service) DeleteTable(id, diagramID string) error {
	if err := s.store.DeleteTable(id, diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}

// DeleteDiagramTables removes every table of a diagram and refreshes the
// mirror.
func (s *Service) DeleteDiagramTables(diagramID string) error {
	if err := s.store.DeleteDiagramTables(diagramID); err != nil {
		return err
	}
	return s.syncDiagram(diagramID)
}
