package scanner

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/adapters/logger"
	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "engine.scanner"

func init() {
	graft.Register(graft.Node[*Scanner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Scanner, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(hasher, log), nil
		},
	})
}
