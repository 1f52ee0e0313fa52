// Package staleness decides which translation units must be rebuilt.
package staleness

import (
	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

// Oracle classifies sources as stale or fresh against the fingerprint
// store. It only reads; fingerprints are written by the scheduler
// after each task completes.
type Oracle struct {
	verifier ports.Verifier
}

// NewOracle creates an Oracle.
func NewOracle(verifier ports.Verifier) *Oracle {
	return &Oracle{verifier: verifier}
}

// Classify builds the run plan. Every source gets a compile task;
// stale ones carry the reason for the rebuild. The terminal link task
// depends on all of them.
func (o *Oracle) Classify(graph *domain.Graph, project *domain.Project, store ports.FingerprintStore, flagsHash string, force bool) (*domain.Plan, error) {
	plan := &domain.Plan{FlagsHash: flagsHash}

	var objects []string
	for node := range graph.Sources() {
		task := &domain.CompileTask{
			Source: node,
			Object: project.ObjectPath(node.Path.String()),
		}
		objects = append(objects, task.Object)

		reason, err := o.classify(graph, store, node, task.Object, flagsHash, force)
		if err != nil {
			return nil, err
		}
		task.Stale = reason != ""
		task.Reason = reason
		plan.Compiles = append(plan.Compiles, task)
	}

	plan.Link = &domain.LinkTask{
		Output:  project.OutputPath(),
		Objects: objects,
	}
	return plan, nil
}

// classify returns the staleness reason, or "" for a fresh unit.
func (o *Oracle) classify(graph *domain.Graph, store ports.FingerprintStore, node *domain.FileNode, object, flagsHash string, force bool) (string, error) {
	if force {
		return "forced rebuild", nil
	}

	path := node.Path.String()
	fp, err := store.Get(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read fingerprint"), "file", path)
	}
	if fp == nil {
		return "never built", nil
	}
	if fp.Outcome != domain.OutcomeSuccess {
		return "previous attempt failed", nil
	}
	if fp.ContentHash != node.Hash {
		return "source changed", nil
	}
	if fp.FlagsHash != flagsHash {
		return "compile flags changed", nil
	}

	deps, err := graph.TransitiveIncludes(node.Path)
	if err != nil {
		return "", err
	}
	for _, dep := range deps {
		depNode, ok := graph.Node(dep)
		if !ok {
			continue
		}
		recorded, ok := fp.Includes[dep.String()]
		if !ok {
			return "new header dependency " + dep.String(), nil
		}
		if recorded != depNode.Hash {
			return "header changed: " + dep.String(), nil
		}
	}

	exists, err := o.verifier.ArtifactExists(object)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to check artifact"), "artifact", object)
	}
	if !exists {
		return "artifact missing", nil
	}

	return "", nil
}
