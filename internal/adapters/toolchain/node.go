package toolchain

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/logger"
	"github.com/alex-iam/smk/internal/core/ports"
)

const NodeID graft.ID = "adapter.toolchain"

// Factory implements ports.ToolchainFactory. The compiler executable
// is part of the project configuration, so the driver is built per run.
type Factory struct {
	logger ports.Logger
}

// New builds a Driver for the given compiler executable.
func (f *Factory) New(compiler string) ports.Toolchain {
	return NewDriver(compiler, f.logger)
}

func init() {
	graft.Register(graft.Node[ports.ToolchainFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ToolchainFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Factory{logger: log}, nil
		},
	})
}
