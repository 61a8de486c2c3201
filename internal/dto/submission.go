package dto

import (
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// SubmitRequest carries the raw input rows of one source screen.
type SubmitRequest struct {
	Rows []domain.Row `json:"rows" binding:"required"`
}

// SubmitResult is the terminal report of one submission pipeline run.
type SubmitResult struct {
	Status     domain.SubmissionStatus  `json:"status"`
	Record     *domain.SubmissionRecord `json:"record,omitempty"`
	ResultRows []domain.ResultRow       `json:"resultRows,omitempty"`
}

// SubmissionResponse defines the saved record data returned by the API.
type SubmissionResponse struct {
	ReportID      string                  `json:"reportID"`
	SourceKey     string                  `json:"sourceKey"`
	Status        domain.SubmissionStatus `json:"status"`
	InputRows     []domain.Row            `json:"inputRows"`
	ResultRows    []domain.ResultRow      `json:"resultRows"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
}

// ToSubmissionResponse converts domain.SubmissionRecord to DTO.
func ToSubmissionResponse(r *domain.SubmissionRecord) SubmissionResponse {
	return SubmissionResponse{
		ReportID:      r.ReportID,
		SourceKey:     r.SourceKey,
		Status:        r.Status,
		InputRows:     r.InputRows,
		ResultRows:    r.ResultRows,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

// AutosaveResponse reports the observable autosave state after an edit.
type AutosaveResponse struct {
	State string `json:"state"`
}

// ReportResponse defines report data returned by the API.
type ReportResponse struct {
	ReportID  string `json:"reportID"`
	CompanyID string `json:"companyID"`
	UserID    string `json:"userID"`
	Year      int    `json:"year"`
	Locked    bool   `json:"locked"`
}

// ToReportResponse converts domain.Report to DTO.
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ReportID:  r.ReportID,
		CompanyID: r.CompanyID,
		UserID:    r.UserID,
		Year:      r.Year,
		Locked:    r.Locked,
	}
}
