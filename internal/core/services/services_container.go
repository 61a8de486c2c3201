package services

import (
	portsrepo "github.com/carbonly/carbon_footprint_app/internal/core/ports/repositories"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/platform/cache"
	"github.com/carbonly/carbon_footprint_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// compute and flagCache may be nil: submissions then degrade to draft saves
// and visibility flags are always read from the database.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	compute portssvc.ComputationClient,
	flagCache *cache.VisibilityCache,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserServiceImpl(repos.UserRepo, repos.CompanyRepo)
	container.Company = NewCompanyServiceImpl(repos.CompanyRepo, repos.UserRepo)
	container.Catalog = NewCatalogServiceImpl(repos.CatalogRepo)
	container.Visibility = NewVisibilityServiceImpl(repos.VisibilityRepo, repos.CatalogRepo, repos.UserRepo, flagCache)
	container.Report = NewReportServiceImpl(repos.ReportRepo, repos.UserRepo)
	container.Submission = NewSubmissionServiceImpl(repos.ReportRepo, repos.SubmissionRepo, repos.UserRepo, compute)
	container.Autosave = NewAutosaveScheduler(container.Submission, cfg.AutosaveDebounce, cfg.AutosaveSavedIndicator)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
