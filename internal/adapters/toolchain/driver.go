// Package toolchain provides the compiler/linker subprocess adapter.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/ports"
)

var _ ports.Toolchain = (*Driver)(nil)

// Driver implements ports.Toolchain using os/exec. Every invocation
// uses a deterministic argument set; exit code and captured stderr are
// the sole failure signal.
type Driver struct {
	compiler string
	logger   ports.Logger

	idOnce sync.Once
	id     string
}

// NewDriver creates a Driver for the given compiler executable.
func NewDriver(compiler string, logger ports.Logger) *Driver {
	return &Driver{
		compiler: compiler,
		logger:   logger,
	}
}

// CompileCommand returns the exact argv Compile would run.
func (d *Driver) CompileCommand(req ports.CompileRequest) []string {
	argv := make([]string, 0, len(req.Flags)+2*len(req.IncludeDirs)+5)
	argv = append(argv, d.compiler)
	argv = append(argv, req.Flags...)
	for _, dir := range req.IncludeDirs {
		argv = append(argv, "-I", dir)
	}
	argv = append(argv, "-c", req.Source, "-o", req.Object)
	return argv
}

// Compile produces one object artifact from one source file.
func (d *Driver) Compile(ctx context.Context, req ports.CompileRequest) error {
	if err := os.MkdirAll(filepath.Dir(req.Object), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create object directory")
	}
	return d.run(ctx, d.CompileCommand(req), req.CombinedOutput)
}

// Link produces the final executable from object artifacts.
func (d *Driver) Link(ctx context.Context, req ports.LinkRequest) error {
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	argv := make([]string, 0, len(req.Objects)+len(req.Flags)+3)
	argv = append(argv, d.compiler)
	argv = append(argv, req.Objects...)
	argv = append(argv, req.Flags...)
	argv = append(argv, "-o", req.Output)
	return d.run(ctx, argv, req.CombinedOutput)
}

// Probe attempts a minimal compile+link referencing the given header
// with the given flags. A nil return confirms the library is usable.
func (d *Driver) Probe(ctx context.Context, req ports.ProbeRequest) error {
	dir, err := os.MkdirTemp("", "smk-probe-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create probe directory")
	}
	defer os.RemoveAll(dir) //nolint:errcheck // Best effort cleanup

	src := filepath.Join(dir, "probe.c")
	content := "#include <" + req.Header + ">\nint main(void) { return 0; }\n"
	if err := os.WriteFile(src, []byte(content), 0o600); err != nil {
		return zerr.Wrap(err, "failed to write probe source")
	}

	argv := make([]string, 0, len(req.Flags)+4)
	argv = append(argv, d.compiler, src)
	argv = append(argv, req.Flags...)
	argv = append(argv, "-o", filepath.Join(dir, "probe"))
	return d.run(ctx, argv, nil)
}

// Identity returns the compiler path plus the first line of its
// --version output, computed once.
func (d *Driver) Identity() string {
	d.idOnce.Do(func() {
		d.id = d.compiler
		out, err := exec.Command(d.compiler, "--version").Output() //nolint:gosec // Compiler is user configured
		if err != nil {
			return
		}
		if line, _, ok := strings.Cut(string(out), "\n"); ok && line != "" {
			d.id = d.compiler + " " + line
		}
	})
	return d.id
}

func (d *Driver) run(ctx context.Context, argv []string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Compiler is user configured

	var stderr bytes.Buffer
	w := io.Writer(&stderr)
	if out != nil {
		w = io.MultiWriter(&stderr, out)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(
			zerr.With(zerr.Wrap(err, "toolchain invocation failed"), "exit_code", exitCode),
			"stderr", strings.TrimSpace(stderr.String()),
		)
	}
	return nil
}
