package services

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// CatalogSvcFacade exposes the poste/source catalog.
type CatalogSvcFacade interface {
	// ListPostes returns all enabled postes ordered by ordinal.
	ListPostes(ctx context.Context) ([]domain.Poste, error)

	// ListSources returns the enabled sources of one poste.
	ListSources(ctx context.Context, posteID string) ([]domain.Source, error)

	// GetSource returns a source by its catalog-wide key.
	GetSource(ctx context.Context, sourceKey string) (*domain.Source, error)
}
