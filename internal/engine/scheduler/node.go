package scheduler

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/adapters/logger"
	"github.com/alex-iam/smk/internal/adapters/telemetry/progrock"
	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, fs.VerifierNodeID, logger.NodeID, progrock.NodeID},
		Run: func(ctx context.Context) (*Scheduler, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewScheduler(hasher, verifier, log, telemetry), nil
		},
	})
}
