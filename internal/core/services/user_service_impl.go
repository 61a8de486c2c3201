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
	"github.com/google/uuid"
)

// userServiceImpl implements the UserSvcFacade interface
type userServiceImpl struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	companyRepo portsrepo.CompanyReader
}

// NewUserServiceImpl creates a new user service
func NewUserServiceImpl(userRepo portsrepo.UserRepositoryFacade, companyRepo portsrepo.CompanyReader) portssvc.UserSvcFacade {
	return &userServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
	}
}

// Ensure userServiceImpl implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userServiceImpl)(nil)

// CreateUser provisions a new user on behalf of an administrator. The
// creator's role bounds what they may provision: ADMIN creates plain users
// inside their own company, SUPER_ADMIN may pick the company and grant ADMIN.
func (s *userServiceImpl) CreateUser(ctx context.Context, creatorUserID string, req dto.CreateUserRequest) (*domain.User, error) {
	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find creating user", slog.String("creator_user_id", creatorUserID))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	companyID := req.CompanyID
	switch creator.Role {
	case domain.RoleSuperAdmin:
		if companyID == "" {
			return nil, apperrors.NewValidationFailedError("companyID is required")
		}
	case domain.RoleAdmin:
		companyID = creator.CompanyID
		if role != domain.RoleUser {
			s.LogWarn(ctx, "Admin attempted to provision a privileged user",
				slog.String("creator_user_id", creatorUserID),
				slog.String("requested_role", string(role)))
			return nil, apperrors.NewForbiddenError("admins may only provision regular users")
		}
	default:
		return nil, apperrors.NewForbiddenError("only administrators may provision users")
	}

	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("company %s does not exist", companyID))
		}
		s.LogError(ctx, err, "Failed to verify company", slog.String("company_id", companyID))
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    companyID,
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		Role:         role,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("username %s is already taken", req.Username))
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "User created",
		slog.String("user_id", user.UserID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)))
	return &user, nil
}

// RegisterUser creates a self-service account. Signups are always plain
// users of the company they name.
func (s *userServiceImpl) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	if _, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("company %s does not exist", req.CompanyID))
		}
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		CompanyID:    req.CompanyID,
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		Role:         domain.RoleUser,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("username %s is already taken", req.Username))
		}
		s.LogError(ctx, err, "Failed to register user", slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID), slog.String("company_id", req.CompanyID))
	return &user, nil
}

// CreateOAuthUser finds the user matching an external identity, creating a
// fresh account on first login. OAuth accounts start without a company; an
// administrator attaches one afterwards.
func (s *userServiceImpl) CreateOAuthUser(ctx context.Context, name, email, authProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByProviderDetails(ctx, authProvider, providerUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by provider details",
			slog.String("auth_provider", authProvider))
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:         userID,
		Username:       email,
		Email:          email,
		Name:           name,
		Role:           domain.RoleUser,
		AuthProvider:   domain.AuthProvider(authProvider),
		ProviderUserID: providerUserID,
		EmailVerified:  emailVerified,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save OAuth user", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "OAuth user created", slog.String("user_id", user.UserID), slog.String("auth_provider", authProvider))
	return &user, nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by username", slog.String("username", username))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns users within the requesting user's scope: every company
// for SUPER_ADMIN, their own company for everyone else.
func (s *userServiceImpl) ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find requesting user", slog.String("user_id", requestingUserID))
		return nil, err
	}

	companyID := requester.CompanyID
	if requester.IsSuperAdmin() {
		companyID = ""
	}

	users, err := s.userRepo.FindUsers(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users", slog.String("company_id", companyID))
		return nil, err
	}
	return users, nil
}

// UpdateUser applies the allowed updates. Users may edit themselves; admins
// may edit users of their own company; SUPER_ADMIN may edit anyone.
func (s *userServiceImpl) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeUserMutation(ctx, requestingUserID, user); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		s.LogError(ctx, err, "Failed to update refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *userServiceImpl) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

// DeleteUser soft deletes a user, subject to the same scoping as updates.
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.authorizeUserMutation(ctx, requestingUserID, user); err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to mark user deleted", slog.String("user_id", userID))
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID), slog.String("deleted_by", requestingUserID))
	return nil
}

// authorizeUserMutation enforces who may modify whom: the user themselves,
// an admin over a plain user of the same company, or SUPER_ADMIN.
func (s *userServiceImpl) authorizeUserMutation(ctx context.Context, requestingUserID string, target *domain.User) error {
	if requestingUserID == target.UserID {
		return nil
	}
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find requesting user", slog.String("user_id", requestingUserID))
		return err
	}
	if requester.IsSuperAdmin() {
		return nil
	}
	if requester.IsAdmin() && requester.CompanyID == target.CompanyID && target.Role == domain.RoleUser {
		return nil
	}
	return apperrors.NewForbiddenError("not allowed to modify this user")
}
