// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/alex-iam/smk/internal/adapters/config"
	_ "github.com/alex-iam/smk/internal/adapters/fs"
	_ "github.com/alex-iam/smk/internal/adapters/logger"
	_ "github.com/alex-iam/smk/internal/adapters/state"
	_ "github.com/alex-iam/smk/internal/adapters/syslib"
	_ "github.com/alex-iam/smk/internal/adapters/telemetry/progrock"
	_ "github.com/alex-iam/smk/internal/adapters/toolchain"
	// Register app and engine nodes.
	_ "github.com/alex-iam/smk/internal/app"
	_ "github.com/alex-iam/smk/internal/engine/scanner"
	_ "github.com/alex-iam/smk/internal/engine/scheduler"
	_ "github.com/alex-iam/smk/internal/engine/staleness"
)
