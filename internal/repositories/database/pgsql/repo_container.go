package pgsql

import (
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		CompanyRepo:    newPgxCompanyRepository(dbPool),
		CatalogRepo:    newPgxCatalogRepository(dbPool),
		VisibilityRepo: newPgxVisibilityRepository(dbPool),
		ReportRepo:     newPgxReportRepository(dbPool),
		SubmissionRepo: newPgxSubmissionRepository(dbPool),
	}
}
