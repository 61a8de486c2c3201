package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/platform/cache"
)

// visibilityServiceImpl implements the VisibilitySvcFacade interface
type visibilityServiceImpl struct {
	BaseService
	visibilityRepo portsrepo.VisibilityRepositoryFacade
	catalogRepo    portsrepo.CatalogReader
	userRepo       portsrepo.UserReader
	flagCache      *cache.VisibilityCache
}

// NewVisibilityServiceImpl creates a new visibility service. flagCache may be
// nil, which disables caching.
func NewVisibilityServiceImpl(
	visibilityRepo portsrepo.VisibilityRepositoryFacade,
	catalogRepo portsrepo.CatalogReader,
	userRepo portsrepo.UserReader,
	flagCache *cache.VisibilityCache,
) portssvc.VisibilitySvcFacade {
	return &visibilityServiceImpl{
		visibilityRepo: visibilityRepo,
		catalogRepo:    catalogRepo,
		userRepo:       userRepo,
		flagCache:      flagCache,
	}
}

// Ensure visibilityServiceImpl implements the VisibilitySvcFacade interface
var _ portssvc.VisibilitySvcFacade = (*visibilityServiceImpl)(nil)

// GetFlagsForUser loads a user's stored flags, serving from the cache when
// possible. A user with no stored rows gets empty flags (everything visible).
func (s *visibilityServiceImpl) GetFlagsForUser(ctx context.Context, userID string) (domain.VisibilityFlags, error) {
	if flags, ok := s.flagCache.Get(ctx, userID); ok {
		return flags, nil
	}

	flags, err := s.visibilityRepo.FindFlagsForUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load visibility flags", slog.String("user_id", userID))
		return domain.VisibilityFlags{}, err
	}

	s.flagCache.Set(ctx, userID, flags)
	return flags, nil
}

// GetEffectiveMatrix resolves the effective visibility of every enabled poste
// and source for the target user, as rendered by the admin console.
func (s *visibilityServiceImpl) GetEffectiveMatrix(ctx context.Context, actorUserID, targetUserID string) (*dto.UserVisibilityMatrix, error) {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != target.UserID && !actor.IsSuperAdmin() && actor.CompanyID != target.CompanyID {
		return nil, apperrors.NewForbiddenError("target user is outside your company")
	}

	flags, err := s.GetFlagsForUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	postes, err := s.catalogRepo.FindPostes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load poste catalog")
		return nil, err
	}

	matrix := &dto.UserVisibilityMatrix{UserID: targetUserID}
	for _, poste := range postes {
		if !poste.Enabled {
			continue
		}

		sources, err := s.catalogRepo.FindSourcesByPoste(ctx, poste.PosteID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load sources", slog.String("poste_id", poste.PosteID))
			return nil, err
		}

		view := dto.PosteVisibilityView{
			PosteID: poste.PosteID,
			Code:    poste.Code,
			Label:   poste.Label,
			Ordinal: poste.Ordinal,
			Hidden:  flags.Postes[poste.PosteID],
			Visible: domain.EffectivePosteVisible(flags, poste.PosteID),
		}
		for _, src := range sources {
			if !src.Enabled {
				continue
			}
			view.Sources = append(view.Sources, dto.SourceVisibilityView{
				SourceKey: src.SourceKey,
				Label:     src.Label,
				Hidden:    flags.Sources[poste.PosteID][src.SourceKey],
				Visible:   domain.EffectiveSourceVisible(flags, poste.PosteID, src.SourceKey),
			})
		}
		matrix.Postes = append(matrix.Postes, view)
	}

	return matrix, nil
}

// SetVisibility toggles a hidden flag for the target user. The edit gate is
// re-checked on every call; a rejected actor changes nothing.
func (s *visibilityServiceImpl) SetVisibility(ctx context.Context, actorUserID, targetUserID, posteID string, sourceKey *string, hidden bool) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return err
	}
	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	if !domain.CanEditVisibility(*actor, *target) {
		s.LogWarn(ctx, "Visibility edit rejected",
			slog.String("actor_user_id", actorUserID),
			slog.String("target_user_id", targetUserID),
			slog.String("actor_role", string(actor.Role)))
		return apperrors.NewForbiddenError("not allowed to edit this user's visibility")
	}

	poste, err := s.catalogRepo.FindPosteByID(ctx, posteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError(fmt.Sprintf("unknown poste %s", posteID))
		}
		return err
	}

	if sourceKey == nil {
		err = s.visibilityRepo.UpsertPosteVisibility(ctx, domain.PosteVisibility{
			UserID:  targetUserID,
			PosteID: poste.PosteID,
			Hidden:  hidden,
		})
	} else {
		source, findErr := s.catalogRepo.FindSourceByKey(ctx, *sourceKey)
		if findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.NewValidationFailedError(fmt.Sprintf("unknown source %s", *sourceKey))
			}
			return findErr
		}
		if source.PosteID != poste.PosteID {
			return apperrors.NewValidationFailedError(fmt.Sprintf("source %s does not belong to poste %s", *sourceKey, posteID))
		}
		err = s.visibilityRepo.UpsertSourceVisibility(ctx, domain.SourceVisibility{
			UserID:    targetUserID,
			PosteID:   poste.PosteID,
			SourceKey: source.SourceKey,
			Hidden:    hidden,
		})
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert visibility flag",
			slog.String("target_user_id", targetUserID),
			slog.String("poste_id", posteID))
		return err
	}

	if err := s.flagCache.Invalidate(ctx, targetUserID); err != nil {
		s.LogWarn(ctx, "Failed to invalidate visibility cache",
			slog.String("target_user_id", targetUserID),
			slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Visibility flag updated",
		slog.String("actor_user_id", actorUserID),
		slog.String("target_user_id", targetUserID),
		slog.String("poste_id", posteID),
		slog.Bool("hidden", hidden))
	return nil
}
