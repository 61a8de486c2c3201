package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	mockReportRepo *MockReportRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.ReportSvcFacade

	owner *domain.User
	admin *domain.User
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewReportServiceImpl(suite.mockReportRepo, suite.mockUserRepo)

	suite.owner = &domain.User{UserID: "user-1", CompanyID: "company-1", Role: domain.RoleUser}
	suite.admin = &domain.User{UserID: "admin-1", CompanyID: "company-1", Role: domain.RoleAdmin}
}

func (suite *ReportServiceTestSuite) TestEnsureReport_ReturnsExisting() {
	ctx := context.Background()
	existing := domain.Report{ReportID: "report-1", UserID: "user-1", Year: 2025}
	suite.mockReportRepo.On("FindReportsByUser", ctx, "user-1").Return([]domain.Report{existing}, nil)

	report, err := suite.service.EnsureReport(ctx, "user-1", 2025)

	suite.Require().NoError(err)
	suite.Equal("report-1", report.ReportID)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestEnsureReport_CreatesOnFirstUse() {
	ctx := context.Background()
	suite.mockReportRepo.On("FindReportsByUser", ctx, "user-1").Return([]domain.Report{}, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(suite.owner, nil)
	suite.mockReportRepo.On("SaveReport", ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.UserID == "user-1" && r.CompanyID == "company-1" && r.Year == 2025 && !r.Locked
	})).Return(nil)

	report, err := suite.service.EnsureReport(ctx, "user-1", 2025)

	suite.Require().NoError(err)
	suite.Equal(2025, report.Year)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestEnsureReport_LosingTheCreationRaceReReads() {
	ctx := context.Background()
	winner := domain.Report{ReportID: "report-w", UserID: "user-1", Year: 2025}

	suite.mockReportRepo.On("FindReportsByUser", ctx, "user-1").Return([]domain.Report{}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(suite.owner, nil)
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything).Return(apperrors.ErrDuplicate)
	suite.mockReportRepo.On("FindReportsByUser", ctx, "user-1").Return([]domain.Report{winner}, nil)

	report, err := suite.service.EnsureReport(ctx, "user-1", 2025)

	suite.Require().NoError(err)
	suite.Equal("report-w", report.ReportID)
}

func (suite *ReportServiceTestSuite) TestLockReport_AdminOfOwningCompany() {
	ctx := context.Background()
	report := &domain.Report{ReportID: "report-1", CompanyID: "company-1", UserID: "user-1"}
	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(report, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)
	suite.mockReportRepo.On("SetReportLocked", ctx, "report-1", true, "admin-1").Return(nil)

	err := suite.service.LockReport(ctx, "admin-1", "report-1")

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestLockReport_OwnerCannotLock() {
	ctx := context.Background()
	report := &domain.Report{ReportID: "report-1", CompanyID: "company-1", UserID: "user-1"}
	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(report, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(suite.owner, nil)

	err := suite.service.LockReport(ctx, "user-1", "report-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
}

func (suite *ReportServiceTestSuite) TestLockReport_AlreadyLockedIsNoOp() {
	ctx := context.Background()
	report := &domain.Report{ReportID: "report-1", CompanyID: "company-1", UserID: "user-1", Locked: true}
	suite.mockReportRepo.On("FindReportByID", ctx, "report-1").Return(report, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)

	err := suite.service.LockReport(ctx, "admin-1", "report-1")

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SetReportLocked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
