// Shared helpers for blueprint CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/mesh-intelligence/blueprints/internal/history"
	"github.com/mesh-intelligence/blueprints/internal/remote"
	"github.com/mesh-intelligence/blueprints/internal/storage"
	"github.com/mesh-intelligence/blueprints/internal/store"
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

// stderrNotifier surfaces degraded-mode failures on stderr.
type stderrNotifier struct{}

func (stderrNotifier) NotifyError(message string) {
	fmt.Fprintln(os.Stderr, "warning:", message)
}

// openService resolves the data directory, opens the local store and the
// history mirror, and assembles the storage façade for the acting user. The
// caller must call the returned close function.
func openService() (*storage.Service, func(), error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	userType, err := types.ParseUserType(flagUserType)
	if err != nil {
		return nil, nil, err
	}
	security := types.StaticSecurity{User: flagUser, Type: userType}

	st, err := store.Open(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	hist, err := history.Open(dataDir)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("open history: %w", err)
	}

	var rc *remote.Client
	if url := resolveShareURL(); url != "" {
		rc = remote.NewClient(url, security)
	}

	svc := storage.New(st, hist, rc, security, stderrNotifier{})
	closeAll := func() {
		hist.Close()
		st.Close()
	}
	return svc, closeAll, nil
}
