package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(db *pgxpool.Pool) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{BaseRepository{Pool: db}}
}

// Ensure PgxCatalogRepository implements portsrepo.CatalogRepositoryFacade
var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

func (r *PgxCatalogRepository) FindPostes(ctx context.Context) ([]domain.Poste, error) {
	query := `SELECT poste_id, ordinal, code, label, enabled FROM postes ORDER BY ordinal;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query postes: %w", err)
	}
	defer rows.Close()

	postes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Poste])
	if err != nil {
		return nil, fmt.Errorf("failed to collect postes: %w", err)
	}
	return postes, nil
}

func (r *PgxCatalogRepository) FindPosteByID(ctx context.Context, posteID string) (*domain.Poste, error) {
	query := `SELECT poste_id, ordinal, code, label, enabled FROM postes WHERE poste_id = $1;`
	rows, err := r.Pool.Query(ctx, query, posteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poste: %w", err)
	}
	poste, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Poste])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan poste: %w", err)
	}
	return &poste, nil
}

func (r *PgxCatalogRepository) FindSourcesByPoste(ctx context.Context, posteID string) ([]domain.Source, error) {
	query := `SELECT source_key, poste_id, label, enabled FROM sources WHERE poste_id = $1 ORDER BY source_key;`
	rows, err := r.Pool.Query(ctx, query, posteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	sources, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Source])
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources: %w", err)
	}
	return sources, nil
}

func (r *PgxCatalogRepository) FindSourceByKey(ctx context.Context, sourceKey string) (*domain.Source, error) {
	query := `SELECT source_key, poste_id, label, enabled FROM sources WHERE source_key = $1;`
	rows, err := r.Pool.Query(ctx, query, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	source, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Source])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}
	return &source, nil
}
