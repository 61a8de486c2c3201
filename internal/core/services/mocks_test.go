package services_test

import (
	"context"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, companyID string, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// MockCompanyRepository is a mock type for the CompanyRepositoryFacade interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockCatalogRepository is a mock type for the CatalogRepositoryFacade interface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindPostes(ctx context.Context) ([]domain.Poste, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Poste), args.Error(1)
}

func (m *MockCatalogRepository) FindPosteByID(ctx context.Context, posteID string) (*domain.Poste, error) {
	args := m.Called(ctx, posteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poste), args.Error(1)
}

func (m *MockCatalogRepository) FindSourcesByPoste(ctx context.Context, posteID string) ([]domain.Source, error) {
	args := m.Called(ctx, posteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Source), args.Error(1)
}

func (m *MockCatalogRepository) FindSourceByKey(ctx context.Context, sourceKey string) (*domain.Source, error) {
	args := m.Called(ctx, sourceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Source), args.Error(1)
}

// MockVisibilityRepository is a mock type for the VisibilityRepositoryFacade interface
type MockVisibilityRepository struct {
	mock.Mock
}

func (m *MockVisibilityRepository) FindFlagsForUser(ctx context.Context, userID string) (domain.VisibilityFlags, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.VisibilityFlags), args.Error(1)
}

func (m *MockVisibilityRepository) UpsertPosteVisibility(ctx context.Context, flag domain.PosteVisibility) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

func (m *MockVisibilityRepository) UpsertSourceVisibility(ctx context.Context, flag domain.SourceVisibility) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

// MockReportRepository is a mock type for the ReportRepositoryFacade interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) FindReportsByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) SetReportLocked(ctx context.Context, reportID string, locked bool, updatedBy string) error {
	args := m.Called(ctx, reportID, locked, updatedBy)
	return args.Error(0)
}

// MockSubmissionRepository is a mock type for the SubmissionRepositoryFacade interface
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) FindSubmission(ctx context.Context, reportID, sourceKey string) (*domain.SubmissionRecord, error) {
	args := m.Called(ctx, reportID, sourceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionRecord), args.Error(1)
}

func (m *MockSubmissionRepository) FindSubmissionsByReport(ctx context.Context, reportID string) ([]domain.SubmissionRecord, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionRecord), args.Error(1)
}

func (m *MockSubmissionRepository) UpsertSubmission(ctx context.Context, record domain.SubmissionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockComputationClient is a mock type for the ComputationClient interface
type MockComputationClient struct {
	mock.Mock
}

func (m *MockComputationClient) Compute(ctx context.Context, req portssvc.ComputeRequest) ([]domain.ResultRow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResultRow), args.Error(1)
}
