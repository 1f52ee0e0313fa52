package ports

// Verifier checks the presence of build artifacts on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// ArtifactExists reports whether the artifact at path exists.
	ArtifactExists(path string) (bool, error)
}
