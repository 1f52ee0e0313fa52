package fs

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/zerr"
)

// sourceExts are the extensions collected when a source entry names a
// directory.
var sourceExts = map[string]bool{".c": true, ".cc": true, ".cpp": true, ".cxx": true}

// Resolver resolves configured source patterns to concrete file paths
// using filepath.Glob. Entries naming a directory are walked
// recursively for source files.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{walker: NewWalker()}
}

// ResolveSources resolves the given source patterns against root to a
// sorted, deduplicated list of absolute file paths. A pattern matching
// nothing is an error: a configured source that does not exist would
// otherwise silently vanish from the build.
func (r *Resolver) ResolveSources(patterns []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, pattern)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob pattern"), "pattern", pattern)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("source not found"), "pattern", pattern)
		}

		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to canonicalize path"), "path", match)
			}

			info, err := os.Stat(abs)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", abs)
			}
			if info.IsDir() {
				for file := range r.walker.WalkFiles(abs, sourceExts, nil) {
					uniquePaths[file] = true
				}
				continue
			}
			uniquePaths[abs] = true
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
