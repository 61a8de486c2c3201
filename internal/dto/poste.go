package dto

import (
	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
)

// SourceResponse defines data returned for one source of a poste.
type SourceResponse struct {
	SourceKey string `json:"sourceKey"`
	Label     string `json:"label"`
	Enabled   bool   `json:"enabled"`
}

// PosteResponse defines data returned for a poste and its sources.
type PosteResponse struct {
	PosteID string           `json:"posteID"`
	Ordinal int              `json:"ordinal"`
	Code    string           `json:"code"`
	Label   string           `json:"label"`
	Enabled bool             `json:"enabled"`
	Sources []SourceResponse `json:"sources,omitempty"`
}

// ToSourceResponse converts domain.Source to DTO.
func ToSourceResponse(s *domain.Source) SourceResponse {
	return SourceResponse{
		SourceKey: s.SourceKey,
		Label:     s.Label,
		Enabled:   s.Enabled,
	}
}

// ToPosteResponse converts domain.Poste and its sources to DTO.
func ToPosteResponse(p *domain.Poste, sources []domain.Source) PosteResponse {
	resp := PosteResponse{
		PosteID: p.PosteID,
		Ordinal: p.Ordinal,
		Code:    p.Code,
		Label:   p.Label,
		Enabled: p.Enabled,
	}
	for i := range sources {
		resp.Sources = append(resp.Sources, ToSourceResponse(&sources[i]))
	}
	return resp
}

// ListPostesResponse wraps the poste catalog.
type ListPostesResponse struct {
	Postes []PosteResponse `json:"postes"`
}
