package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/blueprints/internal/remote"
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// ErrNoRemote is returned by sharing operations when no sharing service is
// configured.
var ErrNoRemote = errors.New("no sharing service configured")

// ShareDiagram uploads a diagram to the sharing service and returns the
// server-assigned id. On success the diagram's SavedAt is stamped, which
// also refreshes the mirror.
func (s *Service) ShareDiagram(id string) (string, error) {
	if s.remote == nil {
		return "", ErrNoRemote
	}

	d, err := s.GetDiagram(id, LoadAll)
	if err != nil {
		return "", err
	}
	snapshot, err := types.DiagramToJSON(d)
	if err != nil {
		return "", err
	}

	remoteID, err := s.remote.CreateDiagram(remote.CreateDiagramRequest{
		ClientDiagramID: d.ID,
		Content:         types.Obfuscate(snapshot),
		Name:            d.Name,
		TablesCount:     len(d.Tables),
	})
	if err != nil {
		return "", fmt.Errorf("sharing diagram %s: %w", id, err)
	}

	savedAt := time.Now().UTC()
	if err := s.UpdateDiagram(id, types.DiagramPatch{SavedAt: &savedAt}); err != nil {
		return "", err
	}
	return remoteID, nil
}

// PullDiagram downloads a shared diagram and stores it locally, children
// included.
func (s *Service) PullDiagram(remoteID string) (*types.Diagram, error) {
	if s.remote == nil {
		return nil, ErrNoRemote
	}

	content, err := s.remote.GetDiagram(remoteID)
	if err != nil {
		return nil, fmt.Errorf("pulling diagram %s: %w", remoteID, err)
	}
	d, err := types.DiagramFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("pulling diagram %s: %w", remoteID, err)
	}

	if err := s.AddDiagram(d, true); err != nil {
		return nil, err
	}
	return d, nil
}
