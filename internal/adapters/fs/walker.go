// Package fs provides file system adapters for walking, hashing and
// resolving project files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files under root whose extension is in exts,
// skipping version control and ignored directories. Paths are yielded
// as produced by filepath.WalkDir (rooted at root).
func (w *Walker) WalkFiles(root string, exts map[string]bool, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if skip := w.shouldSkipDir(d, ignores); skip != nil {
				return skip
			}

			if d.IsDir() {
				return nil
			}
			if len(exts) > 0 && !exts[filepath.Ext(path)] {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkipDir checks if a directory should be skipped based on ignore patterns.
func (w *Walker) shouldSkipDir(d fs.DirEntry, ignores []string) error {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return filepath.SkipDir
	}

	for _, ignore := range ignores {
		matched, _ := filepath.Match(ignore, name)
		if matched {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
	}

	return nil
}
