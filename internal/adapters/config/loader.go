// Package config provides the configuration loader for smk.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

// DefaultFilename is the configuration file looked up in the project root.
const DefaultFilename = "smk.yaml"

var _ ports.ConfigLoader = (*FileLoader)(nil)

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct {
	Filename string
	resolver *fs.Resolver
	logger   ports.Logger
}

// NewLoader creates a FileLoader reading DefaultFilename.
func NewLoader(logger ports.Logger) *FileLoader {
	return &FileLoader{
		Filename: DefaultFilename,
		resolver: fs.NewResolver(),
		logger:   logger,
	}
}

// Load reads the configuration from the given project directory and
// resolves it into an immutable Project. Source globs are expanded
// here so everything downstream works on absolute paths.
func (l *FileLoader) Load(dir string) (*domain.Project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}

	path := filepath.Join(root, l.Filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Smkfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	if file.Name == "" {
		return nil, zerr.With(zerr.New("config is missing required field"), "field", "name")
	}
	if len(file.Sources) == 0 {
		return nil, zerr.With(zerr.New("config is missing required field"), "field", "sources")
	}

	sources, err := l.resolver.ResolveSources(file.Sources, root)
	if err != nil {
		return nil, err
	}

	includeDirs := make([]string, 0, len(file.IncludeDirs))
	for _, d := range file.IncludeDirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		includeDirs = append(includeDirs, d)
	}

	compiler := file.Compiler
	if compiler == "" {
		compiler = os.Getenv("CC")
	}
	if compiler == "" {
		compiler = "cc"
	}

	buildDir := file.BuildDir
	if buildDir == "" {
		buildDir = "build"
	}

	return &domain.Project{
		Name:        file.Name,
		Root:        root,
		Compiler:    compiler,
		Sources:     sources,
		IncludeDirs: includeDirs,
		CFlags:      file.CFlags,
		LinkFlags:   file.LDFlags,
		Hints:       file.Libraries,
		BuildDir:    buildDir,
		Type:        domain.BuildDebug,
	}, nil
}
