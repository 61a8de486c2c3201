package services

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
)

// ReportSvcFacade manages the per-user, per-year reports submissions live in.
type ReportSvcFacade interface {
	// EnsureReport returns the user's report for a year, creating it if absent.
	EnsureReport(ctx context.Context, userID string, year int) (*domain.Report, error)

	// GetReport retrieves a report; callers outside the owning user's company
	// are rejected unless they are SUPER_ADMIN.
	GetReport(ctx context.Context, requestingUserID, reportID string) (*domain.Report, error)

	// LockReport freezes a report; only company admins and SUPER_ADMIN may lock.
	LockReport(ctx context.Context, requestingUserID, reportID string) error
}

// SubmissionSvcFacade is the generic submission pipeline every source screen
// goes through: validate, sanitize, compute, persist, report.
type SubmissionSvcFacade interface {
	// Submit runs the full pipeline for one source's rows.
	Submit(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (*dto.SubmitResult, error)

	// GetSubmission returns the last-saved record for a (report, source) pair.
	GetSubmission(ctx context.Context, actorUserID, reportID, sourceKey string) (*domain.SubmissionRecord, error)
}

// AutosaveState is the observable state of one autosave instance.
type AutosaveState string

const (
	AutosaveIdle      AutosaveState = "idle"
	AutosaveSaving    AutosaveState = "saving"
	AutosaveJustSaved AutosaveState = "justSaved"
)

// AutosaveSvcFacade wraps the submission pipeline with debounced triggering
// and content-hash change detection for screens that save on every edit.
type AutosaveSvcFacade interface {
	// Schedule records an edit: it (re)starts the debounce timer for the
	// (report, source) instance and returns the state observed right after.
	Schedule(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (AutosaveState, error)

	// State reports the current state of one instance.
	State(reportID, sourceKey string) AutosaveState

	// Flush forces a pending save to run immediately, returning the pipeline
	// result, or nil when nothing was pending or the content was unchanged.
	Flush(ctx context.Context, reportID, sourceKey string) (*dto.SubmitResult, error)

	// Close cancels all pending timers.
	Close()
}
