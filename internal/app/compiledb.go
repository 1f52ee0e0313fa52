package app

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

// CompileDBFileName is the compilation database written next to the
// project configuration, where clangd and editors look for it.
const CompileDBFileName = "compile_commands.json"

// compileDBEntry is one translation unit in the compilation database
// (the clang JSON Compilation Database format).
type compileDBEntry struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file"`
}

// writeCompileDB writes compile_commands.json with one entry per
// translation unit, using the exact argv the toolchain would run.
func (a *App) writeCompileDB(project *domain.Project, plan *domain.Plan, tc ports.Toolchain) error {
	entries := make([]compileDBEntry, 0, len(plan.Compiles))
	for _, task := range plan.Compiles {
		entries = append(entries, compileDBEntry{
			Directory: project.Root,
			Arguments: tc.CompileCommand(ports.CompileRequest{
				Source:      task.Source.Path.String(),
				Object:      task.Object,
				IncludeDirs: project.IncludeDirs,
				Flags:       project.EffectiveCFlags(),
			}),
			File: task.Source.Path.String(),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode compilation database")
	}

	path := filepath.Join(project.Root, CompileDBFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zerr.Wrap(err, "failed to write compilation database")
	}

	a.logger.Info("wrote " + path)
	return nil
}
