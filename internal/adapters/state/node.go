package state

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "adapter.fingerprint_store"

// Opener implements ports.StoreOpener. The store file lives under the
// project's build directory, which is only known after configuration
// is loaded, so the store itself is opened per run.
type Opener struct{}

// Open opens the fingerprint store under dir.
func (Opener) Open(dir string) (ports.FingerprintStore, error) {
	return Open(dir)
}

func init() {
	graft.Register(graft.Node[ports.StoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.StoreOpener, error) {
			return Opener{}, nil
		},
	})
}
