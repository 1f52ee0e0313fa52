package domain

// FileKind distinguishes independently compiled translation units from
// headers that only participate as dependencies.
type FileKind int

const (
	// KindSource is a translation unit compiled into one object artifact.
	KindSource FileKind = iota
	// KindHeader is a header file, never compiled on its own.
	KindHeader
)

// FileNode is a node in the dependency graph: one source or header file.
// Identity is the canonical (absolute, cleaned) path.
type FileNode struct {
	Path FilePath
	Kind FileKind

	// Hash is the xxhash of the current file content, formatted %016x.
	Hash string

	// Includes are the directly included local files, resolved to
	// canonical paths, in directive order.
	Includes []FilePath
}

// FilePath is an interned canonical file path.
type FilePath = InternedString

// NewFilePath interns a canonical path.
func NewFilePath(p string) FilePath {
	return NewInternedString(p)
}
