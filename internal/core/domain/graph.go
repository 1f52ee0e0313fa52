// Package domain contains the core domain models for the include
// dependency graph and the incremental build state.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the in-memory directed include graph. Nodes are source and
// header files; edges point from includer to includee. It is built
// fresh each run and is read-only once scanning completes, so it is
// shared across workers without synchronization.
type Graph struct {
	nodes map[FilePath]*FileNode

	// closure memoizes the transitive include set per node. Each
	// node's set is computed at most once regardless of fan-in.
	closure map[FilePath][]FilePath
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[FilePath]*FileNode),
		closure: make(map[FilePath][]FilePath),
	}
}

// AddNode adds a file node to the graph.
// It returns an error if a node with the same path already exists.
func (g *Graph) AddNode(n *FileNode) error {
	if _, exists := g.nodes[n.Path]; exists {
		return zerr.With(ErrNodeAlreadyExists, "path", n.Path.String())
	}
	g.nodes[n.Path] = n
	return nil
}

// Node returns the node for the given path, if present.
func (g *Graph) Node(path FilePath) (*FileNode, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Sources yields the translation units in deterministic (path) order.
func (g *Graph) Sources() iter.Seq[*FileNode] {
	paths := make([]string, 0, len(g.nodes))
	for p, n := range g.nodes {
		if n.Kind == KindSource {
			paths = append(paths, p.String())
		}
	}
	slices.Sort(paths)
	return func(yield func(*FileNode) bool) {
		for _, p := range paths {
			if !yield(g.nodes[NewFilePath(p)]) {
				return
			}
		}
	}
}

// Nodes yields every node in deterministic (path) order.
func (g *Graph) Nodes() iter.Seq[*FileNode] {
	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p.String())
	}
	slices.Sort(paths)
	return func(yield func(*FileNode) bool) {
		for _, p := range paths {
			if !yield(g.nodes[NewFilePath(p)]) {
				return
			}
		}
	}
}

// TransitiveIncludes returns the full transitive include set of the
// given file as sorted canonical paths. Results are memoized per node.
// DetectCycle must have returned nil before calling this.
func (g *Graph) TransitiveIncludes(path FilePath) ([]FilePath, error) {
	if _, ok := g.nodes[path]; !ok {
		return nil, zerr.With(ErrNodeNotFound, "path", path.String())
	}
	return g.transitive(path), nil
}

func (g *Graph) transitive(path FilePath) []FilePath {
	if set, ok := g.closure[path]; ok {
		return set
	}

	seen := make(map[FilePath]bool)
	node := g.nodes[path]
	for _, inc := range node.Includes {
		if _, ok := g.nodes[inc]; !ok {
			continue
		}
		if seen[inc] {
			continue
		}
		seen[inc] = true
		for _, sub := range g.transitive(inc) {
			seen[sub] = true
		}
	}

	strs := make([]string, 0, len(seen))
	for p := range seen {
		strs = append(strs, p.String())
	}
	slices.Sort(strs)

	set := make([]FilePath, len(strs))
	for i, s := range strs {
		set[i] = NewFilePath(s)
	}
	g.closure[path] = set
	return set
}

// DetectCycle checks for include cycles using a depth-first traversal
// with a recursion-stack marker. On detection it returns an error
// carrying the full cycle path, not just the two offending files.
func (g *Graph) DetectCycle() error {
	visited := make(map[FilePath]int) // 0: unvisited, 1: visiting, 2: visited
	var path []FilePath

	var visit func(u FilePath) error
	visit = func(u FilePath) error {
		visited[u] = 1
		path = append(path, u)

		for _, inc := range g.nodes[u].Includes {
			if _, ok := g.nodes[inc]; !ok {
				continue
			}
			if visited[inc] == 1 {
				return g.buildCycleError(path, inc)
			}
			if visited[inc] == 0 {
				if err := visit(inc); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	// Sorted iteration keeps the reported cycle stable across runs.
	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p.String())
	}
	slices.Sort(paths)

	for _, p := range paths {
		fp := NewFilePath(p)
		if visited[fp] == 0 {
			if err := visit(fp); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with the full cycle path as metadata.
func (g *Graph) buildCycleError(path []FilePath, repeat FilePath) error {
	startIdx := 0
	for i, node := range path {
		if node == repeat {
			startIdx = i
			break
		}
	}

	var b strings.Builder
	for i := startIdx; i < len(path); i++ {
		b.WriteString(path[i].String())
		b.WriteString(" -> ")
	}
	b.WriteString(repeat.String())
	return zerr.With(ErrCycleDetected, "cycle", b.String())
}
