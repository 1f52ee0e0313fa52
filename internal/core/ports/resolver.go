package ports

import (
	"context"

	"github.com/alex-iam/smk/internal/core/domain"
)

// LibraryResolver maps external include tokens to linker flags.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type LibraryResolver interface {
	// Resolve produces one resolution per token, in token order.
	// Unresolvable tokens come back with Missing set rather than an
	// error; only infrastructure problems return a non-nil error.
	Resolve(ctx context.Context, project *domain.Project, tokens []string) ([]domain.LibraryResolution, error)
}
