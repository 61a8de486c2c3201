package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/core/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockCompanyRepo *MockCompanyRepository
	service         portssvc.UserSvcFacade

	admin     *domain.User
	superUser *domain.User
	company   *domain.Company
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.service = services.NewUserServiceImpl(suite.mockUserRepo, suite.mockCompanyRepo)

	suite.admin = &domain.User{UserID: "admin-1", CompanyID: "company-1", Role: domain.RoleAdmin}
	suite.superUser = &domain.User{UserID: "super-1", CompanyID: "company-0", Role: domain.RoleSuperAdmin}
	suite.company = &domain.Company{CompanyID: "company-1", Name: "Acme", IsActive: true}
}

func (suite *UserServiceTestSuite) TestCreateUser_AdminProvisionsInOwnCompany() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username:  "jdoe",
		Password:  "password123",
		Name:      "J. Doe",
		CompanyID: "company-9", // ignored for admins
	}

	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, "company-1").Return(suite.company, nil)
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.CompanyID == "company-1" &&
			u.Role == domain.RoleUser &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password123"
	})).Return(nil)

	user, err := suite.service.CreateUser(ctx, "admin-1", req)

	suite.Require().NoError(err)
	suite.Equal("company-1", user.CompanyID, "admin provisioning is pinned to the admin's company")
	suite.Equal(domain.RoleUser, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_AdminCannotGrantAdmin() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "jdoe",
		Password: "password123",
		Name:     "J. Doe",
		Role:     domain.RoleAdmin,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)

	_, err := suite.service.CreateUser(ctx, "admin-1", req)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_SuperAdminPicksCompanyAndRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username:  "jdoe",
		Password:  "password123",
		Name:      "J. Doe",
		CompanyID: "company-1",
		Role:      domain.RoleAdmin,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, "super-1").Return(suite.superUser, nil)
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, "company-1").Return(suite.company, nil)
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.CompanyID == "company-1" && u.Role == domain.RoleAdmin
	})).Return(nil)

	user, err := suite.service.CreateUser(ctx, "super-1", req)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
}

func (suite *UserServiceTestSuite) TestCreateUser_PlainUserForbidden() {
	ctx := context.Background()
	plain := &domain.User{UserID: "user-1", CompanyID: "company-1", Role: domain.RoleUser}
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(plain, nil)

	_, err := suite.service.CreateUser(ctx, "user-1", dto.CreateUserRequest{
		Username: "x", Password: "password123", Name: "X",
	})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, "company-1").Return(suite.company, nil)
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrDuplicate)

	_, err := suite.service.CreateUser(ctx, "admin-1", dto.CreateUserRequest{
		Username: "jdoe", Password: "password123", Name: "J. Doe",
	})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrDuplicate))
}

func (suite *UserServiceTestSuite) TestRegisterUser_UnknownCompany() {
	ctx := context.Background()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, "nope").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.RegisterUser(ctx, dto.RegisterUserRequest{
		Username: "jdoe", Password: "password123", Name: "J. Doe", CompanyID: "nope",
	})

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *UserServiceTestSuite) TestCreateOAuthUser_ReturnsExistingUser() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", AuthProvider: domain.ProviderGoogle, ProviderUserID: "g-123"}
	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "GOOGLE", "g-123").Return(existing, nil)

	user, err := suite.service.CreateOAuthUser(ctx, "J. Doe", "j@doe.com", "GOOGLE", "g-123", true)

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestListUsers_ScopedToCompany() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)
	suite.mockUserRepo.On("FindUsers", ctx, "company-1", 20, 0).Return([]domain.User{*suite.admin}, nil)

	users, err := suite.service.ListUsers(ctx, "admin-1", 20, 0)

	suite.Require().NoError(err)
	suite.Len(users, 1)
}

func (suite *UserServiceTestSuite) TestListUsers_SuperAdminSeesEveryCompany() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "super-1").Return(suite.superUser, nil)
	suite.mockUserRepo.On("FindUsers", ctx, "", 20, 0).Return([]domain.User{}, nil)

	_, err := suite.service.ListUsers(ctx, "super-1", 20, 0)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertCalled(suite.T(), "FindUsers", ctx, "", 20, 0)
}

func (suite *UserServiceTestSuite) TestDeleteUser_AdminCannotTouchForeignCompany() {
	ctx := context.Background()
	target := &domain.User{UserID: "user-2", CompanyID: "company-2", Role: domain.RoleUser}
	suite.mockUserRepo.On("FindUserByID", ctx, "user-2").Return(target, nil)
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-1").Return(suite.admin, nil)

	err := suite.service.DeleteUser(ctx, "user-2", "admin-1")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrForbidden))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
