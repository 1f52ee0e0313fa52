// Package scanner discovers file-level compilation dependencies.
//
// Include extraction is syntactic: directives are recognized by a
// tokenizing line scan, never by running the preprocessor. Both
// branches of conditional compilation are scanned, so the resulting
// edge set over-approximates the true dependencies. A false edge
// costs an unnecessary rebuild, never a missed one.
package scanner

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

// Scanner builds the dependency graph for a project.
type Scanner struct {
	hasher ports.Hasher
	logger ports.Logger
}

// NewScanner creates a Scanner.
func NewScanner(hasher ports.Hasher, logger ports.Logger) *Scanner {
	return &Scanner{
		hasher: hasher,
		logger: logger,
	}
}

// include is one parsed directive before resolution.
type include struct {
	name   string
	angled bool
}

// Scan walks every configured source, follows local includes
// transitively and returns the dependency graph plus the sorted set
// of external include tokens that no search path could satisfy.
func (s *Scanner) Scan(ctx context.Context, project *domain.Project) (*domain.Graph, []string, error) {
	if len(project.Sources) == 0 {
		return nil, nil, domain.ErrNoSources
	}

	graph := domain.NewGraph()
	externals := map[string]bool{}

	type queued struct {
		path string
		kind domain.FileKind
	}
	queue := make([]queued, 0, len(project.Sources))
	seen := map[string]bool{}
	for _, src := range project.Sources {
		queue = append(queue, queued{path: src, kind: domain.KindSource})
		seen[src] = true
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		includes, err := s.parseFile(item.path)
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrUnreadableSource.Error()), "file", item.path)
		}

		node := &domain.FileNode{
			Path: domain.NewFilePath(item.path),
			Kind: item.kind,
		}
		for _, inc := range includes {
			resolved, ok := s.resolveInclude(item.path, inc, project.IncludeDirs)
			if !ok {
				if !inc.angled {
					s.logger.Warn("unresolved quoted include \"" + inc.name + "\" in " + item.path)
				}
				externals[inc.name] = true
				continue
			}
			node.Includes = append(node.Includes, domain.NewFilePath(resolved))
			if !seen[resolved] {
				seen[resolved] = true
				queue = append(queue, queued{path: resolved, kind: domain.KindHeader})
			}
		}

		if err := graph.AddNode(node); err != nil {
			return nil, nil, err
		}
	}

	if err := s.hashNodes(ctx, graph); err != nil {
		return nil, nil, err
	}

	tokens := make([]string, 0, len(externals))
	for token := range externals {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return graph, tokens, nil
}

// parseFile extracts the include directives of one file.
func (s *Scanner) parseFile(path string) ([]include, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from resolved project sources
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var includes []include
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			continue
		}
		directive := strings.TrimSpace(line[1:])
		if !strings.HasPrefix(directive, "include") {
			continue
		}
		rest := strings.TrimSpace(directive[len("include"):])
		inc, ok := parseIncludeTarget(rest)
		if !ok {
			s.logger.Warn("malformed include directive at " + path + ":" + strconv.Itoa(lineNo))
			continue
		}
		includes = append(includes, inc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return includes, nil
}

// parseIncludeTarget extracts the header name from the text following
// the include keyword.
func parseIncludeTarget(rest string) (include, bool) {
	if len(rest) < 2 {
		return include{}, false
	}
	switch rest[0] {
	case '"':
		end := strings.IndexByte(rest[1:], '"')
		if end <= 0 {
			return include{}, false
		}
		return include{name: rest[1 : 1+end]}, true
	case '<':
		end := strings.IndexByte(rest[1:], '>')
		if end <= 0 {
			return include{}, false
		}
		return include{name: rest[1 : 1+end], angled: true}, true
	default:
		// Computed includes (#include MACRO) cannot be followed
		// without the preprocessor.
		return include{}, false
	}
}

// resolveInclude maps a directive to a project-local file. Quoted
// includes try the includer's directory first; angle includes consult
// only the configured search paths.
func (s *Scanner) resolveInclude(includer string, inc include, searchPaths []string) (string, bool) {
	if !inc.angled {
		candidate := filepath.Join(filepath.Dir(includer), inc.name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, inc.name)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// hashNodes fills in content hashes for every graph node in parallel.
func (s *Scanner) hashNodes(ctx context.Context, graph *domain.Graph) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for node := range graph.Nodes() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hash, err := s.hasher.HashFile(node.Path.String())
			if err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrUnreadableSource.Error()), "file", node.Path.String())
			}
			node.Hash = hash
			return nil
		})
	}
	return g.Wait()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
