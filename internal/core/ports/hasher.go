package ports

// Hasher computes content hashes for files and flag sets.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile computes the content hash of a file, formatted %016x.
	HashFile(path string) (string, error)

	// HashStrings computes a combined hash over the given parts in
	// order, formatted %016x.
	HashStrings(parts []string) string
}
