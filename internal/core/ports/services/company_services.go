package services

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a company by ID.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves all companies; restricted to SUPER_ADMIN callers.
	ListCompanies(ctx context.Context, requestingUserID string) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany provisions a new company; restricted to SUPER_ADMIN callers.
	CreateCompany(ctx context.Context, name string, creatorUserID string) (*domain.Company, error)
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}
