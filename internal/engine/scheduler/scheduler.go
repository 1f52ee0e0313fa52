// Package scheduler implements parallel execution of the build plan.
package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

// Scheduler dispatches compile tasks across a bounded worker pool and
// runs the terminal link task once every compile completed. Compile
// tasks have no dependencies on each other; the link task's in-degree
// equals the number of compile tasks.
type Scheduler struct {
	hasher    ports.Hasher
	verifier  ports.Verifier
	logger    ports.Logger
	telemetry ports.Telemetry

	// gauge, when set, observes every change of the active worker
	// count. Used to verify the concurrency bound.
	gauge func(active int)

	mu     sync.RWMutex
	status map[string]domain.TaskState
}

// NewScheduler creates a Scheduler.
func NewScheduler(hasher ports.Hasher, verifier ports.Verifier, logger ports.Logger, telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		hasher:    hasher,
		verifier:  verifier,
		logger:    logger,
		telemetry: telemetry,
		status:    make(map[string]domain.TaskState),
	}
}

// WithConcurrencyGauge installs an observer of the active worker count.
func (s *Scheduler) WithConcurrencyGauge(fn func(active int)) *Scheduler {
	s.gauge = fn
	return s
}

// Status returns the tracked state of a task, keyed by source path
// (or the link key for the link task).
func (s *Scheduler) Status(key string) domain.TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[key]
}

func (s *Scheduler) setStatus(key string, st domain.TaskState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[key] = st
}

// result is one finished compile task.
type result struct {
	task   *domain.CompileTask
	err    error
	reused bool
}

// Run executes the plan with at most jobs concurrent compilations.
// A failing compile does not cancel its siblings; it permanently
// blocks the link task. The returned report always carries the
// complete list of failures.
func (s *Scheduler) Run(ctx context.Context, project *domain.Project, graph *domain.Graph, plan *domain.Plan, store ports.FingerprintStore, tc ports.Toolchain) (*domain.Report, error) {
	jobs := project.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	report := &domain.Report{}
	linkKey := "link:" + plan.Link.Output

	ready := make([]*domain.CompileTask, len(plan.Compiles))
	copy(ready, plan.Compiles)
	for _, t := range ready {
		s.setStatus(t.Source.Path.String(), domain.StateReady)
	}
	s.setStatus(linkKey, domain.StatePending)

	var errs error
	active := 0
	resultsCh := make(chan result, jobs)

	observe := func() {
		if s.gauge != nil {
			s.gauge(active)
		}
	}

	handle := func(res result) {
		active--
		observe()
		path := res.task.Source.Path.String()
		if res.err != nil {
			s.setStatus(path, domain.StateFailed)
			report.Failures = append(report.Failures, domain.Failure{File: path, Reason: res.err.Error()})
			errs = errors.Join(errs, zerr.With(res.err, "file", path))
			return
		}
		s.setStatus(path, domain.StateDone)
		if res.reused {
			report.Reused++
		} else {
			report.Compiled++
		}
	}

	for active > 0 || len(ready) > 0 {
		for len(ready) > 0 && active < jobs && ctx.Err() == nil {
			task := ready[0]
			ready = ready[1:]

			active++
			observe()
			s.setStatus(task.Source.Path.String(), domain.StateRunning)

			go func(t *domain.CompileTask) {
				reused, err := s.executeCompile(ctx, project, graph, plan, store, tc, t)
				resultsCh <- result{task: t, err: err, reused: reused}
			}(task)
		}

		if ctx.Err() != nil && active == 0 {
			return report, errors.Join(errs, ctx.Err())
		}
		if active == 0 && len(ready) == 0 {
			break
		}

		select {
		case res := <-resultsCh:
			handle(res)
		case <-ctx.Done():
			// Stop dispatching and drain in-flight workers; their
			// subprocesses are killed by exec.CommandContext.
			for active > 0 {
				handle(<-resultsCh)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return report, errors.Join(errs, err)
	}
	if errs != nil {
		// The link task stays permanently blocked.
		s.setStatus(linkKey, domain.StateFailed)
		return report, errs
	}

	if err := s.executeLink(ctx, project, plan, store, tc, linkKey, report); err != nil {
		report.Failures = append(report.Failures, domain.Failure{File: plan.Link.Output, Reason: err.Error()})
		s.setStatus(linkKey, domain.StateFailed)
		return report, err
	}
	s.setStatus(linkKey, domain.StateDone)
	report.Executable = plan.Link.Output
	return report, nil
}

// executeCompile runs one compile task, recording its fingerprint
// immediately after completion whether it succeeded or failed. Fresh
// tasks complete by artifact reuse without touching the toolchain.
func (s *Scheduler) executeCompile(ctx context.Context, project *domain.Project, graph *domain.Graph, plan *domain.Plan, store ports.FingerprintStore, tc ports.Toolchain, task *domain.CompileTask) (bool, error) {
	path := task.Source.Path.String()
	ctx, vertex := s.telemetry.Record(ctx, "compile "+displayPath(project, path))

	if !task.Stale {
		vertex.Cached()
		vertex.Complete(nil)
		return true, nil
	}

	s.logger.Info("compiling " + displayPath(project, path) + " (" + task.Reason + ")")

	err := tc.Compile(ctx, ports.CompileRequest{
		Source:         path,
		Object:         task.Object,
		IncludeDirs:    project.IncludeDirs,
		Flags:          project.EffectiveCFlags(),
		CombinedOutput: vertex.Stderr(),
	})

	// Cancellation is not a build outcome; leave the fingerprint as is.
	if ctxErr := ctx.Err(); ctxErr != nil {
		vertex.Complete(ctxErr)
		return false, ctxErr
	}

	outcome := domain.OutcomeSuccess
	if err != nil {
		outcome = domain.OutcomeFailure
		err = zerr.Wrap(err, domain.ErrCompileFailed.Error())
	}

	if putErr := store.Put(s.fingerprint(graph, plan, task, outcome)); putErr != nil {
		err = errors.Join(err, zerr.Wrap(putErr, "failed to record fingerprint"))
	}

	vertex.Complete(err)
	return false, err
}

// fingerprint snapshots the task's inputs after a build attempt.
func (s *Scheduler) fingerprint(graph *domain.Graph, plan *domain.Plan, task *domain.CompileTask, outcome domain.Outcome) domain.Fingerprint {
	includes := map[string]string{}
	if deps, err := graph.TransitiveIncludes(task.Source.Path); err == nil {
		for _, dep := range deps {
			if node, ok := graph.Node(dep); ok {
				includes[dep.String()] = node.Hash
			}
		}
	}
	return domain.Fingerprint{
		Path:        task.Source.Path.String(),
		ContentHash: task.Source.Hash,
		FlagsHash:   plan.FlagsHash,
		Artifact:    task.Object,
		Outcome:     outcome,
		Timestamp:   time.Now(),
		Includes:    includes,
	}
}

// executeLink runs the terminal link task, skipping it when the link
// inputs are unchanged and the executable still exists.
func (s *Scheduler) executeLink(ctx context.Context, project *domain.Project, plan *domain.Plan, store ports.FingerprintStore, tc ports.Toolchain, linkKey string, report *domain.Report) error {
	_, vertex := s.telemetry.Record(ctx, "link "+project.Name)

	if len(plan.Link.Missing) > 0 {
		err := zerr.With(domain.ErrMissingLibraries, "missing", plan.Link.Missing)
		vertex.Complete(err)
		return err
	}

	flags := make([]string, 0, len(plan.Link.LibFlags)+len(project.LinkFlags))
	flags = append(flags, plan.Link.LibFlags...)
	flags = append(flags, project.LinkFlags...)

	linkHash := s.hasher.HashStrings(append(append([]string{plan.Link.Output}, plan.Link.Objects...), flags...))

	if fp, err := store.Get(linkKey); err == nil && fp != nil &&
		fp.Outcome == domain.OutcomeSuccess && fp.FlagsHash == linkHash {
		if exists, err := s.verifier.ArtifactExists(plan.Link.Output); err == nil && exists {
			vertex.Cached()
			vertex.Complete(nil)
			return nil
		}
	}

	err := tc.Link(ctx, ports.LinkRequest{
		Objects:        plan.Link.Objects,
		Output:         plan.Link.Output,
		Flags:          flags,
		CombinedOutput: vertex.Stderr(),
	})
	if err != nil {
		err = zerr.Wrap(err, domain.ErrLinkFailed.Error())
		vertex.Complete(err)
		return err
	}

	if putErr := store.Put(domain.Fingerprint{
		Path:      linkKey,
		FlagsHash: linkHash,
		Artifact:  plan.Link.Output,
		Outcome:   domain.OutcomeSuccess,
		Timestamp: time.Now(),
	}); putErr != nil {
		s.logger.Warn("failed to record link fingerprint: " + putErr.Error())
	}

	vertex.Complete(nil)
	report.Linked = true
	return nil
}

// displayPath shortens an absolute path to be project-relative when possible.
func displayPath(project *domain.Project, path string) string {
	if rel, err := filepath.Rel(project.Root, path); err == nil && !filepath.IsAbs(rel) {
		return rel
	}
	return path
}
