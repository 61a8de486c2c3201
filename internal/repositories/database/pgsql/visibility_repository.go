package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxVisibilityRepository struct {
	BaseRepository
}

func newPgxVisibilityRepository(db *pgxpool.Pool) portsrepo.VisibilityRepositoryFacade {
	return &PgxVisibilityRepository{BaseRepository{Pool: db}}
}

// Ensure PgxVisibilityRepository implements portsrepo.VisibilityRepositoryFacade
var _ portsrepo.VisibilityRepositoryFacade = (*PgxVisibilityRepository)(nil)

// FindFlagsForUser loads both flag tables in one round trip each and folds
// them into nested maps. A user with no rows gets empty maps, not an error.
func (r *PgxVisibilityRepository) FindFlagsForUser(ctx context.Context, userID string) (domain.VisibilityFlags, error) {
	flags := domain.VisibilityFlags{
		Postes:  make(map[string]bool),
		Sources: make(map[string]map[string]bool),
	}

	posteQuery := `SELECT user_id, poste_id, hidden FROM poste_visibility WHERE user_id = $1;`
	rows, err := r.Pool.Query(ctx, posteQuery, userID)
	if err != nil {
		return domain.VisibilityFlags{}, fmt.Errorf("failed to query poste visibility: %w", err)
	}
	posteFlags, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.PosteVisibility])
	if err != nil {
		return domain.VisibilityFlags{}, fmt.Errorf("failed to collect poste visibility: %w", err)
	}
	for _, f := range posteFlags {
		if f.Hidden {
			flags.Postes[f.PosteID] = true
		}
	}

	sourceQuery := `SELECT user_id, poste_id, source_key, hidden FROM source_visibility WHERE user_id = $1;`
	rows, err = r.Pool.Query(ctx, sourceQuery, userID)
	if err != nil {
		return domain.VisibilityFlags{}, fmt.Errorf("failed to query source visibility: %w", err)
	}
	sourceFlags, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SourceVisibility])
	if err != nil {
		return domain.VisibilityFlags{}, fmt.Errorf("failed to collect source visibility: %w", err)
	}
	for _, f := range sourceFlags {
		if !f.Hidden {
			continue
		}
		if flags.Sources[f.PosteID] == nil {
			flags.Sources[f.PosteID] = make(map[string]bool)
		}
		flags.Sources[f.PosteID][f.SourceKey] = true
	}

	return flags, nil
}

func (r *PgxVisibilityRepository) UpsertPosteVisibility(ctx context.Context, flag domain.PosteVisibility) error {
	query := `
		INSERT INTO poste_visibility (user_id, poste_id, hidden)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, poste_id) DO UPDATE SET hidden = EXCLUDED.hidden;
	`
	_, err := r.Pool.Exec(ctx, query, flag.UserID, flag.PosteID, flag.Hidden)
	if err != nil {
		return r.mapUpsertError(err, "poste visibility")
	}
	return nil
}

func (r *PgxVisibilityRepository) UpsertSourceVisibility(ctx context.Context, flag domain.SourceVisibility) error {
	query := `
		INSERT INTO source_visibility (user_id, poste_id, source_key, hidden)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, source_key) DO UPDATE SET hidden = EXCLUDED.hidden;
	`
	_, err := r.Pool.Exec(ctx, query, flag.UserID, flag.PosteID, flag.SourceKey, flag.Hidden)
	if err != nil {
		return r.mapUpsertError(err, "source visibility")
	}
	return nil
}

func (r *PgxVisibilityRepository) mapUpsertError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
		return fmt.Errorf("unknown user, poste or source: %w", apperrors.ErrValidation)
	}
	return fmt.Errorf("failed to upsert %s: %w", what, err)
}
