package ports

import "github.com/alex-iam/smk/internal/core/domain"

// ConfigLoader loads the project build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given directory and
	// returns the resolved project.
	Load(dir string) (*domain.Project, error)
}
