package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/utils"
)

// submissionServiceImpl implements the SubmissionSvcFacade interface.
// Every source screen funnels through the same pipeline: validate, sanitize,
// compute, persist, report. Only the validation and persistence stages can
// fail the call; a computation failure degrades to a draft save.
type submissionServiceImpl struct {
	BaseService
	reportRepo     portsrepo.ReportReader
	submissionRepo portsrepo.SubmissionRepositoryFacade
	userRepo       portsrepo.UserReader
	compute        portssvc.ComputationClient
}

// NewSubmissionServiceImpl creates a new submission service. compute may be
// nil, in which case every save degrades to SAVED_WITHOUT_RESULTS.
func NewSubmissionServiceImpl(
	reportRepo portsrepo.ReportReader,
	submissionRepo portsrepo.SubmissionRepositoryFacade,
	userRepo portsrepo.UserReader,
	compute portssvc.ComputationClient,
) portssvc.SubmissionSvcFacade {
	return &submissionServiceImpl{
		reportRepo:     reportRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		compute:        compute,
	}
}

// Ensure submissionServiceImpl implements the SubmissionSvcFacade interface
var _ portssvc.SubmissionSvcFacade = (*submissionServiceImpl)(nil)

func (s *submissionServiceImpl) Submit(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (*dto.SubmitResult, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find report", slog.String("report_id", reportID))
		}
		return nil, err
	}

	if err := s.authorizeSubmission(ctx, actorUserID, report); err != nil {
		return nil, err
	}

	// The lock check runs before any other stage so a frozen period never
	// sees a partial side effect.
	if report.Locked {
		return nil, apperrors.NewLockedError(fmt.Sprintf("report %s is locked", reportID))
	}

	schema, ok := domain.SchemaForSource(sourceKey)
	if !ok {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown source %s", sourceKey))
	}

	if err := domain.ValidateRows(schema, rows); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	sanitized := domain.SanitizeRows(schema, rows)

	status := domain.SubmissionSuccess
	var results []domain.ResultRow
	if s.compute == nil {
		status = domain.SubmissionSavedWithoutResults
	} else {
		results, err = s.compute.Compute(ctx, portssvc.ComputeRequest{
			UserID:    actorUserID,
			SourceKey: sourceKey,
			Rows:      sanitized,
		})
		if err != nil {
			// Degraded save: the input still persists, the computation can be
			// re-run by submitting again.
			s.LogWarn(ctx, "Computation failed, saving without results",
				slog.String("report_id", reportID),
				slog.String("source_key", sourceKey),
				slog.String("error", err.Error()))
			status = domain.SubmissionSavedWithoutResults
			results = nil
		}
	}

	now := time.Now()
	record := domain.SubmissionRecord{
		ReportID:    reportID,
		SourceKey:   sourceKey,
		InputRows:   sanitized,
		ResultRows:  results,
		ContentHash: utils.HashRows(sanitized),
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.submissionRepo.UpsertSubmission(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to persist submission",
			slog.String("report_id", reportID),
			slog.String("source_key", sourceKey))
		return nil, err
	}

	s.LogInfo(ctx, "Submission saved",
		slog.String("report_id", reportID),
		slog.String("source_key", sourceKey),
		slog.String("status", string(status)),
		slog.Int("row_count", len(sanitized)))

	return &dto.SubmitResult{
		Status:     status,
		Record:     &record,
		ResultRows: results,
	}, nil
}

func (s *submissionServiceImpl) GetSubmission(ctx context.Context, actorUserID, reportID, sourceKey string) (*domain.SubmissionRecord, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeSubmission(ctx, actorUserID, report); err != nil {
		return nil, err
	}

	record, err := s.submissionRepo.FindSubmission(ctx, reportID, sourceKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find submission",
				slog.String("report_id", reportID),
				slog.String("source_key", sourceKey))
		}
		return nil, err
	}
	return record, nil
}

// authorizeSubmission allows the report owner, admins of the owning company,
// and SUPER_ADMIN.
func (s *submissionServiceImpl) authorizeSubmission(ctx context.Context, actorUserID string, report *domain.Report) error {
	if actorUserID == report.UserID {
		return nil
	}
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return err
	}
	if actor.IsSuperAdmin() {
		return nil
	}
	if actor.IsAdmin() && actor.CompanyID == report.CompanyID {
		return nil
	}
	return apperrors.NewForbiddenError("not allowed to access this report")
}
