package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// reportServiceImpl implements the ReportSvcFacade interface
type reportServiceImpl struct {
	BaseService
	reportRepo portsrepo.ReportRepositoryFacade
	userRepo   portsrepo.UserReader
}

// NewReportServiceImpl creates a new report service
func NewReportServiceImpl(reportRepo portsrepo.ReportRepositoryFacade, userRepo portsrepo.UserReader) portssvc.ReportSvcFacade {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		userRepo:   userRepo,
	}
}

// Ensure reportServiceImpl implements the ReportSvcFacade interface
var _ portssvc.ReportSvcFacade = (*reportServiceImpl)(nil)

// EnsureReport returns the user's report for a year, creating it on first
// use. Concurrent creation is resolved by the unique (user, year) constraint:
// the loser of the race re-reads the winner's row.
func (s *reportServiceImpl) EnsureReport(ctx context.Context, userID string, year int) (*domain.Report, error) {
	existing, err := s.findReportForYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := domain.Report{
		ReportID:  uuid.NewString(),
		CompanyID: user.CompanyID,
		UserID:    userID,
		Year:      year,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.findReportForYear(ctx, userID, year)
		}
		s.LogError(ctx, err, "Failed to save report",
			slog.String("user_id", userID), slog.Int("year", year))
		return nil, err
	}

	s.LogInfo(ctx, "Report created",
		slog.String("report_id", report.ReportID),
		slog.String("user_id", userID),
		slog.Int("year", year))
	return &report, nil
}

func (s *reportServiceImpl) GetReport(ctx context.Context, requestingUserID, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find report", slog.String("report_id", reportID))
		}
		return nil, err
	}

	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !requester.IsSuperAdmin() && requester.CompanyID != report.CompanyID {
		return nil, apperrors.NewForbiddenError("report belongs to another company")
	}

	return report, nil
}

// LockReport freezes the reporting period. Only admins of the owning company
// and SUPER_ADMIN may lock; locking an already locked report is a no-op.
func (s *reportServiceImpl) LockReport(ctx context.Context, requestingUserID, reportID string) error {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}

	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if !requester.IsSuperAdmin() && !(requester.IsAdmin() && requester.CompanyID == report.CompanyID) {
		return apperrors.NewForbiddenError("only company admins may lock reports")
	}

	if report.Locked {
		return nil
	}

	if err := s.reportRepo.SetReportLocked(ctx, reportID, true, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to lock report", slog.String("report_id", reportID))
		return err
	}

	s.LogInfo(ctx, "Report locked",
		slog.String("report_id", reportID),
		slog.String("locked_by", requestingUserID))
	return nil
}

func (s *reportServiceImpl) findReportForYear(ctx context.Context, userID string, year int) (*domain.Report, error) {
	reports, err := s.reportRepo.FindReportsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reports", slog.String("user_id", userID))
		return nil, err
	}
	for i := range reports {
		if reports[i].Year == year {
			return &reports[i], nil
		}
	}
	return nil, nil
}
