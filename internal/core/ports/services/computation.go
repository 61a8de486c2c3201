package services

import (
	"context"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// ComputeRequest is what the external emissions calculation service receives:
// the acting user, the source being filled in, and its sanitized rows.
type ComputeRequest struct {
	UserID    string       `json:"userID"`
	SourceKey string       `json:"sourceKey"`
	Rows      []domain.Row `json:"rows"`
}

// ComputationClient abstracts the external emissions calculation service.
// Latency, retries and timeouts are the implementation's concern, but every
// failure mode must surface as an error wrapping apperrors.ErrComputation so
// the pipeline can degrade to a draft save instead of failing the call.
type ComputationClient interface {
	Compute(ctx context.Context, req ComputeRequest) ([]domain.ResultRow, error)
}
