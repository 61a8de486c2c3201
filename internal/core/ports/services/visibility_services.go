package services

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
)

// VisibilityReaderSvc defines read operations for visibility resolution
type VisibilityReaderSvc interface {
	// GetFlagsForUser loads the stored visibility flags of one user.
	GetFlagsForUser(ctx context.Context, userID string) (domain.VisibilityFlags, error)

	// GetEffectiveMatrix resolves the effective visibility of every enabled
	// poste and source for the target user. The actor must be allowed to see
	// the target (same company, or SUPER_ADMIN).
	GetEffectiveMatrix(ctx context.Context, actorUserID, targetUserID string) (*dto.UserVisibilityMatrix, error)
}

// VisibilityAdminSvc defines gate-checked mutations of visibility flags
type VisibilityAdminSvc interface {
	// SetVisibility creates or updates a hidden flag for the target user.
	// A nil sourceKey targets the poste-level flag, otherwise the source-level
	// flag. The authorization gate is re-checked on every call; a rejected
	// actor gets apperrors.ErrForbidden and no state changes.
	SetVisibility(ctx context.Context, actorUserID, targetUserID, posteID string, sourceKey *string, hidden bool) error
}

// VisibilitySvcFacade combines all visibility-related service interfaces
type VisibilitySvcFacade interface {
	VisibilityReaderSvc
	VisibilityAdminSvc
}
