package fs

import (
	"os"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/ports"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier checks the presence of build artifacts.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// ArtifactExists reports whether the artifact at path exists.
func (v *Verifier) ArtifactExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
	}
	return true, nil
}
