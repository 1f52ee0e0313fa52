// Package main is the entry point for the smk build tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/joho/godotenv"

	"github.com/alex-iam/smk/cmd/smk/commands"
	"github.com/alex-iam/smk/internal/app"
	"github.com/alex-iam/smk/internal/core/domain"
	_ "github.com/alex-iam/smk/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A project-local .env can provide CC, CFLAGS and friends. Missing
	// files are fine.
	_ = godotenv.Load()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// Compile and link diagnostics already went to stderr.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
