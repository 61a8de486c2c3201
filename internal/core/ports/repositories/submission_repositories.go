package repositories

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// ReportReader defines read operations for reports
type ReportReader interface {
	// FindReportByID retrieves a specific report.
	FindReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// FindReportsByUser retrieves all reports of one user.
	FindReportsByUser(ctx context.Context, userID string) ([]domain.Report, error)
}

// ReportWriter defines write operations for reports
type ReportWriter interface {
	// SaveReport persists a new report.
	SaveReport(ctx context.Context, report domain.Report) error

	// SetReportLocked flips the locked flag of a report.
	SetReportLocked(ctx context.Context, reportID string, locked bool, updatedBy string) error
}

// ReportRepositoryFacade combines report repository interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}

// SubmissionReader defines read operations for submission records
type SubmissionReader interface {
	// FindSubmission retrieves the record for a (report, source) pair, or
	// apperrors.ErrNotFound when nothing has been saved yet.
	FindSubmission(ctx context.Context, reportID, sourceKey string) (*domain.SubmissionRecord, error)

	// FindSubmissionsByReport retrieves every record saved under a report.
	FindSubmissionsByReport(ctx context.Context, reportID string) ([]domain.SubmissionRecord, error)
}

// SubmissionWriter defines write operations for submission records
type SubmissionWriter interface {
	// UpsertSubmission inserts or replaces the record for its (report, source)
	// natural key. Last write wins; no history is retained.
	UpsertSubmission(ctx context.Context, record domain.SubmissionRecord) error
}

// SubmissionRepositoryFacade combines submission repository interfaces.
type SubmissionRepositoryFacade interface {
	SubmissionReader
	SubmissionWriter
}
