package storage

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// syncDiagram recomputes the history mirror entry for a diagram so it
// reflects the local store's current state. Called after every mutating
// operation with the owning diagram's id.
//
// The routine is idempotent: with no intervening mutation, repeated calls
// write byte-identical metadata, and the entry's updated timestamp always
// mirrors the diagram's UpdatedAt rather than the call time.
func (s *Service) syncDiagram(diagramID string) error {
	diagram, err := s.GetDiagram(diagramID, LoadAll)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("loading diagram %s for sync: %w", diagramID, err)
	}

	if diagram == nil {
		// The diagram is gone; drop its mirror entry if one exists.
		if _, err := s.history.Get(diagramID); errors.Is(err, types.ErrNotFound) {
			return nil
		} else if err != nil {
			return fmt.Errorf("checking mirror entry %s: %w", diagramID, err)
		}
		if err := s.history.Delete(diagramID); err != nil {
			return fmt.Errorf("dropping mirror entry %s: %w", diagramID, err)
		}
		return nil
	}

	snapshot, err := types.DiagramToJSON(diagram)
	if err != nil {
		return fmt.Errorf("serializing diagram %s for sync: %w", diagramID, err)
	}
	metadata := types.Obfuscate(snapshot)

	_, err = s.history.Get(diagramID)
	if errors.Is(err, types.ErrNotFound) {
		return s.history.Add(&types.HistoryEntry{
			ID:        diagramID,
			UID:       types.Obfuscate(s.security.GetUser()),
			Metadata:  metadata,
			CreatedAt: diagram.CreatedAt,
			UpdatedAt: diagram.UpdatedAt,
		})
	}
	if err != nil {
		return fmt.Errorf("reading mirror entry %s: %w", diagramID, err)
	}

	return s.history.Update(diagramID, metadata, diagram.UpdatedAt)
}
