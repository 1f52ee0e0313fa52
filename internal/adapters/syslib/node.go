package syslib

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/adapters/logger"
	"github.com/alex-iam/smk/internal/adapters/toolchain"
	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "adapter.syslib"

func init() {
	graft.Register(graft.Node[ports.LibraryResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{toolchain.NodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.LibraryResolver, error) {
			factory, err := graft.Dep[ports.ToolchainFactory](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(factory, hasher, log)
		},
	})
}
