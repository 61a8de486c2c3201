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

const reportColumns = `report_id, company_id, user_id, year, locked, created_at, created_by, last_updated_at, last_updated_by`

type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(db *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository{Pool: db}}
}

// Ensure PgxReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		report.ReportID,
		report.CompanyID,
		report.UserID,
		report.Year,
		report.Locked,
		report.CreatedAt,
		report.CreatedBy,
		report.LastUpdatedAt,
		report.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique (user_id, year)
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1;`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	report, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Report])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &report, nil
}

func (r *PgxReportRepository) FindReportsByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY year DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Report])
	if err != nil {
		return nil, fmt.Errorf("failed to collect reports: %w", err)
	}
	return reports, nil
}

func (r *PgxReportRepository) SetReportLocked(ctx context.Context, reportID string, locked bool, updatedBy string) error {
	query := `
		UPDATE reports SET locked = $2, last_updated_at = now(), last_updated_by = $3
		WHERE report_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, reportID, locked, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set report lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const submissionColumns = `report_id, source_key, input_rows, result_rows, content_hash, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxSubmissionRepository struct {
	BaseRepository
}

func newPgxSubmissionRepository(db *pgxpool.Pool) portsrepo.SubmissionRepositoryFacade {
	return &PgxSubmissionRepository{BaseRepository{Pool: db}}
}

// Ensure PgxSubmissionRepository implements portsrepo.SubmissionRepositoryFacade
var _ portsrepo.SubmissionRepositoryFacade = (*PgxSubmissionRepository)(nil)

// UpsertSubmission replaces the record under its (report_id, source_key)
// natural key. Row payloads are stored as jsonb; pgx encodes the slices
// directly.
func (r *PgxSubmissionRepository) UpsertSubmission(ctx context.Context, record domain.SubmissionRecord) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (report_id, source_key) DO UPDATE SET
			input_rows = EXCLUDED.input_rows,
			result_rows = EXCLUDED.result_rows,
			content_hash = EXCLUDED.content_hash,
			status = EXCLUDED.status,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		record.ReportID,
		record.SourceKey,
		record.InputRows,
		record.ResultRows,
		record.ContentHash,
		record.Status,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // unknown report
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to upsert submission: %w", err)
	}
	return nil
}

func (r *PgxSubmissionRepository) FindSubmission(ctx context.Context, reportID, sourceKey string) (*domain.SubmissionRecord, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE report_id = $1 AND source_key = $2;`
	rows, err := r.Pool.Query(ctx, query, reportID, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.SubmissionRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}
	return &record, nil
}

func (r *PgxSubmissionRepository) FindSubmissionsByReport(ctx context.Context, reportID string) ([]domain.SubmissionRecord, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE report_id = $1 ORDER BY source_key;`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SubmissionRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to collect submissions: %w", err)
	}
	return records, nil
}
