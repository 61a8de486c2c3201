package repositories

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// VisibilityReader defines read operations for visibility flags
type VisibilityReader interface {
	// FindFlagsForUser loads every stored visibility flag for one user.
	// Users with no stored rows get empty (default-open) flags, not an error.
	FindFlagsForUser(ctx context.Context, userID string) (domain.VisibilityFlags, error)
}

// VisibilityWriter defines write operations for visibility flags
type VisibilityWriter interface {
	// UpsertPosteVisibility creates or updates a (user, poste) hidden flag.
	UpsertPosteVisibility(ctx context.Context, flag domain.PosteVisibility) error

	// UpsertSourceVisibility creates or updates a (user, poste, source) hidden flag.
	UpsertSourceVisibility(ctx context.Context, flag domain.SourceVisibility) error
}

// VisibilityRepositoryFacade combines all visibility repository interfaces.
// Flags are toggled, never deleted, so there is no delete operation.
type VisibilityRepositoryFacade interface {
	VisibilityReader
	VisibilityWriter
}
