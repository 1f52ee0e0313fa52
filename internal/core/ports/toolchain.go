// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// CompileRequest describes one translation unit compilation.
type CompileRequest struct {
	Source      string
	Object      string
	IncludeDirs []string
	Flags       []string

	// CombinedOutput, when set, receives the compiler's combined
	// output as it is produced (in addition to the error metadata
	// attached on failure).
	CombinedOutput io.Writer
}

// LinkRequest describes the final link of all object artifacts.
type LinkRequest struct {
	Objects []string
	Output  string
	Flags   []string

	// CombinedOutput, when set, receives the linker's combined output.
	CombinedOutput io.Writer
}

// ProbeRequest describes a minimal compile+link used to confirm that a
// system header and its candidate linker flags are usable.
type ProbeRequest struct {
	Header string
	Flags  []string
}

// Toolchain invokes the external compiler/linker as a subprocess with
// a deterministic argument set. Exit code and captured stderr are the
// sole failure signal.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Compile produces one object artifact from one source file.
	Compile(ctx context.Context, req CompileRequest) error

	// Link produces the final executable from object artifacts.
	Link(ctx context.Context, req LinkRequest) error

	// Probe attempts a minimal compile+link referencing the given
	// header with the given flags. A nil return confirms presence.
	Probe(ctx context.Context, req ProbeRequest) error

	// CompileCommand returns the exact argv Compile would run, for
	// compilation database generation.
	CompileCommand(req CompileRequest) []string

	// Identity returns a stable identifier for the toolchain
	// (executable plus version), used in cache keys.
	Identity() string
}

// ToolchainFactory builds a Toolchain for a configured compiler. The
// compiler executable is part of the project configuration, so the
// concrete toolchain is constructed per run.
type ToolchainFactory interface {
	New(compiler string) Toolchain
}
