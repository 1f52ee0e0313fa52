package staleness

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "engine.staleness"

func init() {
	graft.Register(graft.Node[*Oracle]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.VerifierNodeID},
		Run: func(ctx context.Context) (*Oracle, error) {
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			return NewOracle(verifier), nil
		},
	})
}
