package chi

import (
	"fmt"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/constraint"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/result"
)

// errorCode is the machine-readable error discriminator in API responses.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeMaterialNotFound       errorCode = "material_not_found"
	codeVectorDimMismatch      errorCode = "vector_dim_mismatch"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeVectorStoreUnavailable errorCode = "vector_store_unavailable"
	codeUnauthorized           errorCode = "unauthorized"
	codeInternalError          errorCode = "internal_error"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Code       errorCode        `json:"code"`
	Message    string           `json:"message"`
	Violations []fieldViolation `json:"violations,omitempty"`
}

type fieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ingestRequest is the POST /materials body.
type ingestRequest struct {
	Materials []material.Material `json:"materials"`
}

// ingestResponse lists the stored materials with their assigned ids.
type ingestResponse struct {
	Items []material.Stored `json:"items"`
	Count int               `json:"count"`
}

// locationSearch is the hard radius filter of a search request.
type locationSearch struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radiusKm"`
}

// searchRequest is the POST /materials/search body.
type searchRequest struct {
	Material      *material.Material  `json:"material"`
	TopK          int                 `json:"topK,omitempty"`
	Constraints   map[string]string   `json:"constraints,omitempty"`
	Location      *locationSearch     `json:"location,omitempty"`
	AvailableTime *material.TimeRange `json:"availableTime,omitempty"`
	Weights       map[string]int      `json:"weights,omitempty"`
}

// matchItem is one ranked result.
type matchItem struct {
	Material  material.Stored    `json:"material"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// searchResponse carries the ranked matches and the weights that
// produced the order.
type searchResponse struct {
	Matches []matchItem        `json:"matches"`
	Weights map[string]float64 `json:"weights"`
}

// healthResponse mirrors the health report.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// retrievalRequestFromDTO validates and converts the wire request into
// the domain form. Validation failures surface as domain.ErrValidation.
func retrievalRequestFromDTO(req searchRequest) (request.Request, error) {
	cons, err := constraintsFromDTO(req.Constraints)
	if err != nil {
		return request.Request{}, err
	}

	var loc *request.LocationSearch
	if req.Location != nil {
		loc = &request.LocationSearch{
			Center: material.GeoPoint{
				Latitude:  req.Location.Latitude,
				Longitude: req.Location.Longitude,
			},
			RadiusKm: req.Location.RadiusKm,
		}
	}

	var weights map[scoring.Field]int
	if req.Weights != nil {
		weights = make(map[scoring.Field]int, len(req.Weights))
		for k, v := range req.Weights {
			weights[scoring.Field(k)] = v
		}
	}

	r, err := request.New(req.Material, req.TopK, cons, loc, req.AvailableTime, weights)
	if err != nil {
		return request.Request{}, fmt.Errorf("build retrieval request: %w", err)
	}
	return r, nil
}

func constraintsFromDTO(raw map[string]string) (constraint.Set, error) {
	if raw == nil {
		return nil, nil
	}
	levels := make(map[scoring.Field]constraint.Level, len(raw))
	for k, v := range raw {
		levels[scoring.Field(k)] = constraint.Level(v)
	}
	cons, err := constraint.New(levels)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldViolation{
			Field: "constraints", Reason: err.Error(),
		})
	}
	return cons, nil
}

func rankingToDTO(ranking result.Ranking) searchResponse {
	matches := make([]matchItem, len(ranking.Matches))
	for i := range ranking.Matches {
		m := &ranking.Matches[i]
		matches[i] = matchItem{
			Material:  m.Stored(),
			Score:     m.Score(),
			Breakdown: breakdownToDTO(m.Breakdown()),
		}
	}

	weights := make(map[string]float64, len(ranking.Weights))
	for f, w := range ranking.Weights {
		weights[string(f)] = w
	}

	return searchResponse{Matches: matches, Weights: weights}
}

// breakdownToDTO exposes only defined per-field scores; fields the
// query or candidate lacked data for are omitted.
func breakdownToDTO(b scoring.Breakdown) map[string]float64 {
	out := make(map[string]float64, len(b))
	for f, s := range b {
		if s.Defined() {
			out[string(f)] = s.Value()
		}
	}
	return out
}

func violationsToDTO(violations []domain.FieldViolation) []fieldViolation {
	out := make([]fieldViolation, len(violations))
	for i, v := range violations {
		out[i] = fieldViolation{Field: v.Field, Reason: v.Reason}
	}
	return out
}
