package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) EnsureReport(ctx context.Context, userID string, year int) (*domain.Report, error) {
	args := m.Called(ctx, userID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) GetReport(ctx context.Context, requestingUserID, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, requestingUserID, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) LockReport(ctx context.Context, requestingUserID, reportID string) error {
	args := m.Called(ctx, requestingUserID, reportID)
	return args.Error(0)
}

var _ portssvc.ReportSvcFacade = (*MockReportService)(nil)

// --- Mock SubmissionService ---
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (*dto.SubmitResult, error) {
	args := m.Called(ctx, actorUserID, reportID, sourceKey, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitResult), args.Error(1)
}
func (m *MockSubmissionService) GetSubmission(ctx context.Context, actorUserID, reportID, sourceKey string) (*domain.SubmissionRecord, error) {
	args := m.Called(ctx, actorUserID, reportID, sourceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionRecord), args.Error(1)
}

var _ portssvc.SubmissionSvcFacade = (*MockSubmissionService)(nil)

// --- Mock AutosaveService ---
type MockAutosaveService struct {
	mock.Mock
}

func (m *MockAutosaveService) Schedule(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (portssvc.AutosaveState, error) {
	args := m.Called(ctx, actorUserID, reportID, sourceKey, rows)
	return args.Get(0).(portssvc.AutosaveState), args.Error(1)
}
func (m *MockAutosaveService) State(reportID, sourceKey string) portssvc.AutosaveState {
	args := m.Called(reportID, sourceKey)
	return args.Get(0).(portssvc.AutosaveState)
}
func (m *MockAutosaveService) Flush(ctx context.Context, reportID, sourceKey string) (*dto.SubmitResult, error) {
	args := m.Called(ctx, reportID, sourceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitResult), args.Error(1)
}
func (m *MockAutosaveService) Close() {
	m.Called()
}

var _ portssvc.AutosaveSvcFacade = (*MockAutosaveService)(nil)

// --- Test Suite ---
type SubmissionHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockReportService     *MockReportService
	mockSubmissionService *MockSubmissionService
	mockAutosaveService   *MockAutosaveService
	jwtSecret             string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *SubmissionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *SubmissionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReportService = new(MockReportService)
	suite.mockSubmissionService = new(MockSubmissionService)
	suite.mockAutosaveService = new(MockAutosaveService)

	v1 := suite.router.Group("/api/v1")
	registerSubmissionRoutes(v1, suite.mockReportService, suite.mockSubmissionService, suite.mockAutosaveService)
}

func (suite *SubmissionHandlerTestSuite) doRequest(method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *SubmissionHandlerTestSuite) TestEnsureReport_Success() {
	userID := uuid.NewString()
	expected := &domain.Report{
		ReportID:  uuid.NewString(),
		CompanyID: uuid.NewString(),
		UserID:    userID,
		Year:      2025,
	}

	suite.mockReportService.On("EnsureReport",
		mock.Anything, userID, 2025,
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/reports", userID, gin.H{"year": 2025})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReportResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.ReportID, resp.ReportID)
	suite.Equal(2025, resp.Year)
	suite.False(resp.Locked)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *SubmissionHandlerTestSuite) TestEnsureReport_YearOutOfRange() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/reports", userID, gin.H{"year": 1970})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "EnsureReport")
}

func (suite *SubmissionHandlerTestSuite) TestSubmit_Success() {
	userID := uuid.NewString()
	reportID := uuid.NewString()
	rows := []domain.Row{{"fuelType": "diesel", "consumption": 1200}}
	expected := &dto.SubmitResult{
		Status:     domain.SubmissionSuccess,
		ResultRows: []domain.ResultRow{{"total_tco2e": 3.2}},
	}

	suite.mockSubmissionService.On("Submit",
		mock.Anything, userID, reportID, "2A",
		mock.MatchedBy(func(got []domain.Row) bool {
			return len(got) == 1 && got[0]["fuelType"] == "diesel"
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A", reportID)
	w := suite.doRequest(http.MethodPut, url, userID, dto.SubmitRequest{Rows: rows})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SubmitResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.SubmissionSuccess, resp.Status)
	suite.mockSubmissionService.AssertExpectations(suite.T())
}

func (suite *SubmissionHandlerTestSuite) TestSubmit_LockedReportReturns423() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockSubmissionService.On("Submit",
		mock.Anything, userID, reportID, "2A", mock.Anything,
	).Return(nil, apperrors.ErrReportLocked).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A", reportID)
	w := suite.doRequest(http.MethodPut, url, userID, dto.SubmitRequest{Rows: []domain.Row{{"fuelType": "diesel"}}})

	suite.Equal(http.StatusLocked, w.Code)
}

func (suite *SubmissionHandlerTestSuite) TestSubmit_ValidationFailureReturns400() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockSubmissionService.On("Submit",
		mock.Anything, userID, reportID, "2A", mock.Anything,
	).Return(nil, apperrors.NewValidationFailedError("row 1: missing required field consumption")).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A", reportID)
	w := suite.doRequest(http.MethodPut, url, userID, dto.SubmitRequest{Rows: []domain.Row{{"fuelType": "diesel"}}})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "consumption")
}

func (suite *SubmissionHandlerTestSuite) TestSubmit_MissingTokenReturns401() {
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/reports/"+uuid.NewString()+"/sources/2A", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSubmissionService.AssertNotCalled(suite.T(), "Submit")
}

func (suite *SubmissionHandlerTestSuite) TestGetSubmission_NotFound() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockSubmissionService.On("GetSubmission",
		mock.Anything, userID, reportID, "3A",
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/3A", reportID)
	w := suite.doRequest(http.MethodGet, url, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SubmissionHandlerTestSuite) TestLockReport_ForbiddenForOwner() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportService.On("LockReport",
		mock.Anything, userID, reportID,
	).Return(apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/reports/%s/lock", reportID), userID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *SubmissionHandlerTestSuite) TestAutosave_Accepted() {
	userID := uuid.NewString()
	reportID := uuid.NewString()
	rows := []domain.Row{{"fuelType": "petrol", "consumption": 80}}

	suite.mockAutosaveService.On("Schedule",
		mock.Anything, userID, reportID, "2A", mock.Anything,
	).Return(portssvc.AutosaveIdle, nil).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A/autosave", reportID)
	w := suite.doRequest(http.MethodPost, url, userID, dto.SubmitRequest{Rows: rows})

	suite.Equal(http.StatusAccepted, w.Code)
	var resp dto.AutosaveResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("idle", resp.State)
	suite.mockAutosaveService.AssertExpectations(suite.T())
}

func (suite *SubmissionHandlerTestSuite) TestAutosaveState() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockAutosaveService.On("State", reportID, "5B").Return(portssvc.AutosaveJustSaved).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/5B/autosave", reportID)
	w := suite.doRequest(http.MethodGet, url, userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AutosaveResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("justSaved", resp.State)
}

func (suite *SubmissionHandlerTestSuite) TestFlushAutosave_PendingSaveReturnsResult() {
	userID := uuid.NewString()
	reportID := uuid.NewString()
	expected := &dto.SubmitResult{
		Status:     domain.SubmissionSuccess,
		ResultRows: []domain.ResultRow{{"total_tco2e": 1.4}},
	}

	suite.mockAutosaveService.On("Flush", mock.Anything, reportID, "2A").Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A/autosave/flush", reportID)
	w := suite.doRequest(http.MethodPost, url, userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SubmitResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.SubmissionSuccess, resp.Status)
	suite.mockAutosaveService.AssertExpectations(suite.T())
}

func (suite *SubmissionHandlerTestSuite) TestFlushAutosave_NothingPendingReturns204() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockAutosaveService.On("Flush", mock.Anything, reportID, "2A").Return(nil, nil).Once()

	url := fmt.Sprintf("/api/v1/reports/%s/sources/2A/autosave/flush", reportID)
	w := suite.doRequest(http.MethodPost, url, userID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.Bytes())
}

// --- Run Test Suite ---
func TestSubmissionHandler(t *testing.T) {
	suite.Run(t, new(SubmissionHandlerTestSuite))
}
