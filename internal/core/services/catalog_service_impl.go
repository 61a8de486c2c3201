package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
)

// catalogServiceImpl implements the CatalogSvcFacade interface.
// The catalog is seeded by migrations; this service only filters and serves it.
type catalogServiceImpl struct {
	BaseService
	catalogRepo portsrepo.CatalogRepositoryFacade
}

// NewCatalogServiceImpl creates a new catalog service
func NewCatalogServiceImpl(catalogRepo portsrepo.CatalogRepositoryFacade) portssvc.CatalogSvcFacade {
	return &catalogServiceImpl{catalogRepo: catalogRepo}
}

// Ensure catalogServiceImpl implements the CatalogSvcFacade interface
var _ portssvc.CatalogSvcFacade = (*catalogServiceImpl)(nil)

func (s *catalogServiceImpl) ListPostes(ctx context.Context) ([]domain.Poste, error) {
	postes, err := s.catalogRepo.FindPostes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list postes")
		return nil, err
	}

	enabled := make([]domain.Poste, 0, len(postes))
	for _, p := range postes {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled, nil
}

func (s *catalogServiceImpl) ListSources(ctx context.Context, posteID string) ([]domain.Source, error) {
	if _, err := s.catalogRepo.FindPosteByID(ctx, posteID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find poste", slog.String("poste_id", posteID))
		}
		return nil, err
	}

	sources, err := s.catalogRepo.FindSourcesByPoste(ctx, posteID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sources", slog.String("poste_id", posteID))
		return nil, err
	}

	enabled := make([]domain.Source, 0, len(sources))
	for _, src := range sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled, nil
}

func (s *catalogServiceImpl) GetSource(ctx context.Context, sourceKey string) (*domain.Source, error) {
	source, err := s.catalogRepo.FindSourceByKey(ctx, sourceKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find source", slog.String("source_key", sourceKey))
		}
		return nil, err
	}
	return source, nil
}
