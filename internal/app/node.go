package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/alex-iam/smk/internal/adapters/config"
	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/adapters/logger"
	"github.com/alex-iam/smk/internal/adapters/state"
	"github.com/alex-iam/smk/internal/adapters/syslib"
	"github.com/alex-iam/smk/internal/adapters/telemetry/progrock"
	"github.com/alex-iam/smk/internal/adapters/toolchain"
	"github.com/alex-iam/smk/internal/core/ports"
	"github.com/alex-iam/smk/internal/engine/scanner"
	"github.com/alex-iam/smk/internal/engine/scheduler"
	"github.com/alex-iam/smk/internal/engine/staleness"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components exposed
// to the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scanner.NodeID,
			staleness.NodeID,
			syslib.NodeID,
			scheduler.NodeID,
			state.NodeID,
			toolchain.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	scan, err := graft.Dep[*scanner.Scanner](ctx)
	if err != nil {
		return nil, err
	}
	oracle, err := graft.Dep[*staleness.Oracle](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.LibraryResolver](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}
	opener, err := graft.Dep[ports.StoreOpener](ctx)
	if err != nil {
		return nil, err
	}
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
	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, scan, oracle, resolver, sched, opener, factory, hasher, log, telemetry), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{App: a, Logger: log}, nil
}
