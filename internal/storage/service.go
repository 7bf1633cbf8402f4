// Package storage is the public operation surface of the Blueprints local
// storage system. It combines the versioned local store, the history mirror,
// and the remote sharing service into diagram-shaped operations, routing
// between local and remote authority on the caller's user type.
package storage

import (
	"github.com/mesh-intelligence/blueprints/internal/history"
	"github.com/mesh-intelligence/blueprints/internal/remote"
	"github.com/mesh-intelligence/blueprints/internal/store"
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// LoadOptions selects which child collections a diagram read eager-loads.
// The zero value loads the diagram shell only.
type LoadOptions struct {
	IncludeTables        bool
	IncludeRelationships bool
	IncludeDependencies  bool
}

// LoadAll eager-loads every child collection.
var LoadAll = LoadOptions{
	IncludeTables:        true,
	IncludeRelationships: true,
	IncludeDependencies:  true,
}

// Service is the storage façade. All handles are injected; the service owns
// none of their lifecycles.
type Service struct {
	store    *store.Store
	history  *history.Store
	remote   *remote.Client
	security types.Security
	notifier types.Notifier
}

// New assembles a Service. remote may be nil for purely local deployments;
// guest sessions never reach it.
func New(
	st *store.Store,
	hist *history.Store,
	rc *remote.Client,
	security types.Security,
	notifier types.Notifier,
) *Service {
	if notifier == nil {
		notifier = types.NopNotifier{}
	}
	return &Service{
		store:    st,
		history:  hist,
		remote:   rc,
		security: security,
		notifier: notifier,
	}
}

// GetConfig returns the local store's singleton config record.
func (s *Service) GetConfig() (*types.Config, error) {
	return s.store.GetConfig()
}

// UpdateConfig patches the local store's singleton config record.
func (s *Service) UpdateConfig(patch types.ConfigPatch) error {
	return s.store.UpdateConfig(patch)
}
