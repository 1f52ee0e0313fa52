package config

// Smkfile represents the structure of the smk.yaml configuration file.
type Smkfile struct {
	Name     string `yaml:"name"`
	Compiler string `yaml:"compiler"`

	// Sources lists glob patterns, file paths or directories. A
	// directory entry is walked recursively for .c files.
	Sources     []string            `yaml:"sources"`
	IncludeDirs []string            `yaml:"include_dirs"`
	CFlags      []string            `yaml:"cflags"`
	LDFlags     []string            `yaml:"ldflags"`
	Libraries   map[string][]string `yaml:"libraries"`
	BuildDir    string              `yaml:"build_dir"`
}
