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

// companyServiceImpl implements the CompanySvcFacade interface
type companyServiceImpl struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewCompanyServiceImpl creates a new company service
func NewCompanyServiceImpl(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserReader) portssvc.CompanySvcFacade {
	return &companyServiceImpl{
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// Ensure companyServiceImpl implements the CompanySvcFacade interface
var _ portssvc.CompanySvcFacade = (*companyServiceImpl)(nil)

func (s *companyServiceImpl) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListCompanies returns every company. Only SUPER_ADMIN sees across tenants.
func (s *companyServiceImpl) ListCompanies(ctx context.Context, requestingUserID string) ([]domain.Company, error) {
	if err := s.requireSuperAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	companies, err := s.companyRepo.FindCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, err
	}
	return companies, nil
}

// CreateCompany provisions a new tenant. Only SUPER_ADMIN may create one.
func (s *companyServiceImpl) CreateCompany(ctx context.Context, name string, creatorUserID string) (*domain.Company, error) {
	if err := s.requireSuperAdmin(ctx, creatorUserID); err != nil {
		return nil, err
	}

	now := time.Now()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      name,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("a company with this name already exists")
		}
		s.LogError(ctx, err, "Failed to save company", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID), slog.String("name", name))
	return &company, nil
}

func (s *companyServiceImpl) requireSuperAdmin(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find requesting user", slog.String("user_id", userID))
		return err
	}
	if !user.IsSuperAdmin() {
		return apperrors.NewForbiddenError("super admin role required")
	}
	return nil
}
