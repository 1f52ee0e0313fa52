package domain

import (
	"path/filepath"
	"strings"
)

// BuildType selects the flag preset applied on top of the configured
// compile flags.
type BuildType string

const (
	// BuildDebug is the default development configuration.
	BuildDebug BuildType = "debug"
	// BuildRelease is the optimized configuration.
	BuildRelease BuildType = "release"
)

// Flags returns the preset compile flags for the build type.
func (b BuildType) Flags() []string {
	switch b {
	case BuildRelease:
		return []string{"-O3", "-DNDEBUG"}
	default:
		return []string{"-O0", "-g", "-DDEBUG", "-Wall", "-Wextra"}
	}
}

// Valid reports whether the build type is a known preset.
func (b BuildType) Valid() bool {
	return b == BuildDebug || b == BuildRelease
}

// Project is the resolved build configuration for one run. It is
// assembled by the config loader and not mutated afterwards.
type Project struct {
	// Name of the final executable.
	Name string

	// Root is the absolute project root directory.
	Root string

	// Compiler is the compiler executable name or path.
	Compiler string

	// Sources are the resolved absolute paths of all translation units.
	Sources []string

	// IncludeDirs are the absolute include search paths, in order.
	IncludeDirs []string

	// CFlags are extra compile flags from the configuration.
	CFlags []string

	// LinkFlags are extra linker flags from the configuration.
	LinkFlags []string

	// Hints maps external include tokens to explicit linker flags.
	// Hints always win over probing.
	Hints map[string][]string

	// BuildDir is the build output directory, relative to Root.
	BuildDir string

	// Type selects the flag preset.
	Type BuildType

	// Jobs is the compile concurrency limit. Zero means the available
	// parallel hardware capacity.
	Jobs int
}

// EffectiveCFlags returns the configured flags plus the build type preset.
func (p *Project) EffectiveCFlags() []string {
	flags := make([]string, 0, len(p.CFlags)+5)
	flags = append(flags, p.CFlags...)
	flags = append(flags, p.Type.Flags()...)
	return flags
}

// BuildRoot is the absolute build directory holding every build type
// plus persisted state.
func (p *Project) BuildRoot() string {
	return filepath.Join(p.Root, p.BuildDir)
}

// OutDir is the absolute per-build-type output directory.
func (p *Project) OutDir() string {
	return filepath.Join(p.Root, p.BuildDir, string(p.Type))
}

// StateDir is the absolute directory holding persisted build state.
func (p *Project) StateDir() string {
	return filepath.Join(p.Root, p.BuildDir, ".smk")
}

// ObjectPath maps a source path to its object artifact path, mirroring
// the source layout under the output directory.
func (p *Project) ObjectPath(source string) string {
	rel, err := filepath.Rel(p.Root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	ext := filepath.Ext(rel)
	return filepath.Join(p.OutDir(), strings.TrimSuffix(rel, ext)+".o")
}

// OutputPath is the absolute path of the final executable.
func (p *Project) OutputPath() string {
	return filepath.Join(p.OutDir(), p.Name)
}
