package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubmissionServiceTestSuite struct {
	suite.Suite
	mockReportRepo     *MockReportRepository
	mockSubmissionRepo *MockSubmissionRepository
	mockUserRepo       *MockUserRepository
	mockCompute        *MockComputationClient
	service            portssvc.SubmissionSvcFacade

	report *domain.Report
}

func (suite *SubmissionServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockSubmissionRepo = new(MockSubmissionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCompute = new(MockComputationClient)
	suite.service = services.NewSubmissionServiceImpl(
		suite.mockReportRepo,
		suite.mockSubmissionRepo,
		suite.mockUserRepo,
		suite.mockCompute,
	)

	suite.report = &domain.Report{
		ReportID:  "report-1",
		CompanyID: "company-1",
		UserID:    "user-1",
		Year:      2025,
	}
}

func (suite *SubmissionServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	rows := []domain.Row{{"site": "A", "consumption": "1000"}}
	results := []domain.ResultRow{{"site": "A", "total_tco2e": 1.2}}

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockCompute.On("Compute", ctx, mock.MatchedBy(func(req portssvc.ComputeRequest) bool {
		if req.SourceKey != "2A" || len(req.Rows) != 1 {
			return false
		}
		// Sanitization must have run before the compute call.
		consumption, ok := req.Rows[0]["consumption"].(decimal.Decimal)
		return ok && consumption.Equal(decimal.NewFromInt(1000))
	})).Return(results, nil)
	suite.mockSubmissionRepo.On("UpsertSubmission", ctx, mock.MatchedBy(func(rec domain.SubmissionRecord) bool {
		return rec.ReportID == "report-1" &&
			rec.SourceKey == "2A" &&
			rec.Status == domain.SubmissionSuccess &&
			rec.ContentHash != "" &&
			len(rec.ResultRows) == 1
	})).Return(nil)

	result, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)

	suite.Require().NoError(err)
	suite.Equal(domain.SubmissionSuccess, result.Status)
	suite.Equal(results, result.ResultRows)
	suite.mockSubmissionRepo.AssertExpectations(suite.T())
	suite.mockCompute.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_ComputationFailureDegradesToDraft() {
	ctx := context.Background()
	rows := []domain.Row{{"site": "A", "consumption": "1000"}}

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockCompute.On("Compute", ctx, mock.Anything).
		Return(nil, apperrors.NewGatewayTimeoutError("compute timed out"))
	suite.mockSubmissionRepo.On("UpsertSubmission", ctx, mock.MatchedBy(func(rec domain.SubmissionRecord) bool {
		return rec.Status == domain.SubmissionSavedWithoutResults && len(rec.ResultRows) == 0
	})).Return(nil)

	result, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)

	suite.Require().NoError(err, "computation failure must not fail the save")
	suite.Equal(domain.SubmissionSavedWithoutResults, result.Status)
	suite.Empty(result.ResultRows)
	suite.NotEmpty(result.Record.ContentHash, "degraded saves still carry the content hash")
	suite.mockSubmissionRepo.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_ValidationFailureSavesNothing() {
	ctx := context.Background()
	rows := []domain.Row{
		{"site": "A", "consumption": "1000"},
		{"consumption": "200"},
	}

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)

	result, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Contains(err.Error(), "row 2")
	suite.Nil(result)
	suite.mockCompute.AssertNotCalled(suite.T(), "Compute", mock.Anything, mock.Anything)
	suite.mockSubmissionRepo.AssertNotCalled(suite.T(), "UpsertSubmission", mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_PersistenceFailureIsFatal() {
	ctx := context.Background()
	rows := []domain.Row{{"site": "A", "consumption": "1000"}}
	dbErr := errors.New("connection refused")

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockCompute.On("Compute", ctx, mock.Anything).
		Return([]domain.ResultRow{{"total_tco2e": 1.2}}, nil)
	suite.mockSubmissionRepo.On("UpsertSubmission", ctx, mock.Anything).Return(dbErr)

	result, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
	suite.Nil(result)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_LockedReportRejectedBeforeAnyStage() {
	ctx := context.Background()
	locked := *suite.report
	locked.Locked = true

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(&locked, nil)

	result, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", []domain.Row{{"site": "A", "consumption": "1"}})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrReportLocked))
	suite.Nil(result)
	suite.mockCompute.AssertNotCalled(suite.T(), "Compute", mock.Anything, mock.Anything)
	suite.mockSubmissionRepo.AssertNotCalled(suite.T(), "UpsertSubmission", mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_UnknownSourceKey() {
	ctx := context.Background()
	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)

	_, err := suite.service.Submit(ctx, "user-1", "report-1", "9Z", []domain.Row{{"site": "A"}})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *SubmissionServiceTestSuite) TestSubmit_ForeignCompanyForbidden() {
	ctx := context.Background()
	outsider := &domain.User{UserID: "user-9", CompanyID: "company-9", Role: domain.RoleAdmin}

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "user-9").Return(outsider, nil)

	_, err := suite.service.Submit(ctx, "user-9", "report-1", "2A", []domain.Row{{"site": "A", "consumption": "1"}})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
}

func (suite *SubmissionServiceTestSuite) TestSubmit_IdempotentForIdenticalRows() {
	ctx := context.Background()
	rows := []domain.Row{{"site": "A", "consumption": "1000"}}
	results := []domain.ResultRow{{"total_tco2e": 1.2}}

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockCompute.On("Compute", ctx, mock.Anything).Return(results, nil)
	suite.mockSubmissionRepo.On("UpsertSubmission", ctx, mock.Anything).Return(nil)

	first, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)
	suite.Require().NoError(err)
	second, err := suite.service.Submit(ctx, "user-1", "report-1", "2A", rows)
	suite.Require().NoError(err)

	suite.Equal(first.Record.ContentHash, second.Record.ContentHash)
	suite.Equal(first.Record.InputRows, second.Record.InputRows)
	suite.Equal(first.Status, second.Status)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_NilComputeClientAlwaysDraft() {
	ctx := context.Background()
	svc := services.NewSubmissionServiceImpl(suite.mockReportRepo, suite.mockSubmissionRepo, suite.mockUserRepo, nil)

	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockSubmissionRepo.On("UpsertSubmission", ctx, mock.Anything).Return(nil)

	result, err := svc.Submit(ctx, "user-1", "report-1", "2A", []domain.Row{{"site": "A", "consumption": "5"}})

	suite.Require().NoError(err)
	suite.Equal(domain.SubmissionSavedWithoutResults, result.Status)
}

func (suite *SubmissionServiceTestSuite) TestGetSubmission_NotFound() {
	ctx := context.Background()
	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(suite.report, nil)
	suite.mockSubmissionRepo.On("FindSubmission", ctx, "report-1", "2A").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.GetSubmission(ctx, "user-1", "report-1", "2A")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func TestSubmissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}
