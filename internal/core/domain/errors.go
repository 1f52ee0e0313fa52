package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeAlreadyExists is returned when attempting to add a file node
	// with a path that is already present in the graph.
	ErrNodeAlreadyExists = zerr.New("file already exists in graph")

	// ErrNodeNotFound is returned when a requested file is not part of the graph.
	ErrNodeNotFound = zerr.New("file not found in graph")

	// ErrCycleDetected is returned when the include graph contains a header cycle.
	// The full cycle path is attached as metadata.
	ErrCycleDetected = zerr.New("include cycle detected")

	// ErrUnreadableSource is returned when a source or header file cannot be read.
	// This is fatal for the run: no valid schedule exists without a complete graph.
	ErrUnreadableSource = zerr.New("unreadable source file")

	// ErrCompileFailed is returned per translation unit when the toolchain
	// rejects it. Sibling compilations are not aborted.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrLinkFailed is returned when the final link step fails.
	ErrLinkFailed = zerr.New("link failed")

	// ErrMissingLibraries is returned when external includes could not be
	// resolved to linker flags by any strategy. The unresolved tokens are
	// attached as metadata.
	ErrMissingLibraries = zerr.New("unresolved system libraries")

	// ErrNoSources is returned when the project configuration matches no
	// source files.
	ErrNoSources = zerr.New("no source files")

	// ErrBuildFailed is the terminal error for a run with at least one
	// failed task. Per-file detail is carried in the Report.
	ErrBuildFailed = zerr.New("build failed")
)
