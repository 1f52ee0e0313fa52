package ports

import "github.com/alex-iam/smk/internal/core/domain"

// FingerprintStore persists per-file build records across runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FingerprintStore interface {
	// Get retrieves the fingerprint for a key (canonical path or link key).
	// Returns nil, nil if not found.
	Get(key string) (*domain.Fingerprint, error)

	// Put stores a fingerprint and persists it immediately.
	Put(fp domain.Fingerprint) error
}

// StoreOpener opens the fingerprint store for a project's state
// directory. The store file lives under the build directory, which is
// only known after the configuration is loaded.
type StoreOpener interface {
	Open(dir string) (FingerprintStore, error)
}
