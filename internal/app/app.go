// Package app implements the application layer for smk.
package app

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
	"github.com/alex-iam/smk/internal/engine/scanner"
	"github.com/alex-iam/smk/internal/engine/scheduler"
	"github.com/alex-iam/smk/internal/engine/staleness"
)

// RunOptions are the per-invocation build options from the CLI.
type RunOptions struct {
	// Dir is the project directory. Empty means the current directory.
	Dir string

	// Jobs caps compile concurrency. Zero picks the hardware parallelism.
	Jobs int

	// Type selects the build flag preset. Empty means debug.
	Type string

	// Force rebuilds everything regardless of fingerprints.
	Force bool

	// Verbose logs the full compiler command line for every stale unit.
	Verbose bool

	// CompileDB writes compile_commands.json before building.
	CompileDB bool

	// RunAfter executes the produced binary after a successful build.
	RunAfter bool
}

// App wires the build pipeline: load config, scan, check cycles,
// classify staleness, resolve system libraries, schedule, report.
type App struct {
	loader    ports.ConfigLoader
	scanner   *scanner.Scanner
	oracle    *staleness.Oracle
	resolver  ports.LibraryResolver
	scheduler *scheduler.Scheduler
	opener    ports.StoreOpener
	factory   ports.ToolchainFactory
	hasher    ports.Hasher
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scan *scanner.Scanner,
	oracle *staleness.Oracle,
	resolver ports.LibraryResolver,
	sched *scheduler.Scheduler,
	opener ports.StoreOpener,
	factory ports.ToolchainFactory,
	hasher ports.Hasher,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		loader:    loader,
		scanner:   scan,
		oracle:    oracle,
		resolver:  resolver,
		scheduler: sched,
		opener:    opener,
		factory:   factory,
		hasher:    hasher,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Run executes one build. The report always carries the complete
// failure list; the error summarizes why the run did not succeed.
func (a *App) Run(ctx context.Context, opts RunOptions) (*domain.Report, error) {
	project, err := a.loadProject(opts)
	if err != nil {
		return nil, err
	}

	tc := a.factory.New(project.Compiler)

	graph, externals, err := a.scanner.Scan(ctx, project)
	if err != nil {
		return nil, err
	}
	if err := graph.DetectCycle(); err != nil {
		return nil, err
	}

	store, err := a.opener.Open(project.StateDir())
	if err != nil {
		return nil, err
	}

	flagsHash := a.hasher.HashStrings(append([]string{tc.Identity()}, project.EffectiveCFlags()...))

	plan, err := a.oracle.Classify(graph, project, store, flagsHash, opts.Force)
	if err != nil {
		return nil, err
	}

	if err := a.resolveLibraries(ctx, project, plan, externals); err != nil {
		return nil, err
	}

	if opts.CompileDB {
		if err := a.writeCompileDB(project, plan, tc); err != nil {
			return nil, err
		}
	}

	if opts.Verbose {
		a.logCommands(project, plan, tc)
	}

	a.logger.Info("building " + project.Name + ": " +
		strconv.Itoa(plan.StaleCount()) + " of " + strconv.Itoa(len(plan.Compiles)) + " units stale")

	report, err := a.scheduler.Run(ctx, project, graph, plan, store, tc)
	if cerr := a.telemetry.Close(); cerr != nil {
		a.logger.Warn("failed to close telemetry: " + cerr.Error())
	}
	if err != nil {
		return report, errors.Join(domain.ErrBuildFailed, err)
	}

	a.logger.Info("build succeeded: " + report.Executable)

	if opts.RunAfter {
		if err := a.runExecutable(ctx, project, report.Executable); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Clean removes the project's build directory, including all artifacts
// and persisted state.
func (a *App) Clean(dir string) error {
	project, err := a.loader.Load(dir)
	if err != nil {
		return err
	}

	buildRoot := project.BuildRoot()
	if err := os.RemoveAll(buildRoot); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "dir", buildRoot)
	}
	a.logger.Info("removed " + buildRoot)
	return nil
}

// loadProject loads the configuration and applies the CLI options.
func (a *App) loadProject(opts RunOptions) (*domain.Project, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	project, err := a.loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Type != "" {
		bt := domain.BuildType(opts.Type)
		if !bt.Valid() {
			return nil, zerr.With(zerr.New("unknown build type"), "type", opts.Type)
		}
		project.Type = bt
	}
	if opts.Jobs > 0 {
		project.Jobs = opts.Jobs
	}
	return project, nil
}

// resolveLibraries maps external include tokens to linker flags and
// attaches them to the link task. Unresolvable tokens do not abort the
// run here; they fail the link step with the full list.
func (a *App) resolveLibraries(ctx context.Context, project *domain.Project, plan *domain.Plan, externals []string) error {
	if len(externals) == 0 {
		return nil
	}

	resolutions, err := a.resolver.Resolve(ctx, project, externals)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, res := range resolutions {
		if res.Missing {
			plan.Link.Missing = append(plan.Link.Missing, res.Token)
			continue
		}
		for _, flag := range res.Flags {
			if seen[flag] {
				continue
			}
			seen[flag] = true
			plan.Link.LibFlags = append(plan.Link.LibFlags, flag)
		}
	}
	return nil
}

// logCommands logs the full compiler command line for every stale unit.
func (a *App) logCommands(project *domain.Project, plan *domain.Plan, tc ports.Toolchain) {
	for _, task := range plan.Compiles {
		if !task.Stale {
			continue
		}
		argv := tc.CompileCommand(ports.CompileRequest{
			Source:      task.Source.Path.String(),
			Object:      task.Object,
			IncludeDirs: project.IncludeDirs,
			Flags:       project.EffectiveCFlags(),
		})
		a.logger.Info(strings.Join(argv, " "))
	}
}

// runExecutable runs the produced binary with inherited stdio.
func (a *App) runExecutable(ctx context.Context, project *domain.Project, executable string) error {
	a.logger.Info("running " + executable)

	cmd := exec.CommandContext(ctx, executable) //nolint:gosec // Running the binary we just built
	cmd.Dir = project.Root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return zerr.With(zerr.Wrap(err, "executable failed"), "executable", executable)
	}
	return nil
}
