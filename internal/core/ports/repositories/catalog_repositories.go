package repositories

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// CatalogReader defines read operations over the poste/source catalog.
// The catalog is provisioned by migrations and read-only to the core.
type CatalogReader interface {
	// FindPostes retrieves all postes ordered by ordinal.
	FindPostes(ctx context.Context) ([]domain.Poste, error)

	// FindPosteByID retrieves one poste.
	FindPosteByID(ctx context.Context, posteID string) (*domain.Poste, error)

	// FindSourcesByPoste retrieves the sources of one poste.
	FindSourcesByPoste(ctx context.Context, posteID string) ([]domain.Source, error)

	// FindSourceByKey retrieves a source by its catalog-wide key.
	FindSourceByKey(ctx context.Context, sourceKey string) (*domain.Source, error)
}

// CatalogRepositoryFacade combines catalog repository interfaces.
type CatalogRepositoryFacade interface {
	CatalogReader
}
