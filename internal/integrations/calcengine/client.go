// Package calcengine is the HTTP client for the external emission-factor
// computation service. The service owns every factor table; this backend
// never computes a tCO2e figure itself.
package calcengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/apperrors"
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
)

const (
	computePath        = "/v1/compute"
	defaultHTTPTimeout = 30 * time.Second
)

// Client calls the computation service over HTTP. Every failure mode wraps
// apperrors.ErrComputation so the submission pipeline can degrade to a draft
// save instead of failing the request.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type computeResponse struct {
	Rows []domain.ResultRow `json:"rows"`
}

type computeErrorResponse struct {
	Message string `json:"message"`
}

// NewClient creates a computation client. An empty baseURL returns nil: the
// caller treats a nil client as "no computation service configured".
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure Client implements the ComputationClient interface
var _ portssvc.ComputationClient = (*Client)(nil)

// Compute posts sanitized rows and returns one result row per input row.
func (c *Client) Compute(ctx context.Context, req portssvc.ComputeRequest) ([]domain.ResultRow, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", apperrors.ErrComputation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+computePath, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrComputation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out", apperrors.ErrComputation)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrComputation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errBody computeErrorResponse
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", apperrors.ErrComputation, resp.StatusCode, errBody.Message)
		}
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrComputation, resp.StatusCode)
	}

	var out computeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrComputation, err)
	}
	return out.Rows, nil
}
