package libhound

import (
	"context"
	"encoding/json"

	"github.com/quay/hound"
	"github.com/quay/hound/orchestrator"
)

// DefaultWorkers is the number of concurrent verifications used when
// Options.Workers is unset.
const DefaultWorkers = orchestrator.DefaultWorkers

// Store is the artifact store the run talks to.
type Store interface {
	Ping(context.Context) error
	Repositories(context.Context) ([]hound.Repository, error)
	Exists(ctx context.Context, path string) error
	PackageInfo(ctx context.Context, path string) (json.RawMessage, error)
}

// Options are the dependencies and knobs for a Libhound.
type Options struct {
	// Store is required.
	Store Store
	// Repositories replaces the default candidate repositories for the
	// named ecosystems.
	Repositories map[hound.Ecosystem][]string
	// Workers bounds concurrent verifications.
	Workers int
}
