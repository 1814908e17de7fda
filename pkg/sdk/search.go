package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/constraint"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
)

// LocationFilter is a hard radius filter around a center coordinate.
type LocationFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// SearchRequest describes one retrieval query. Material is the query
// material; TopK defaults to 5 and is bounded to 10. Constraints maps
// field names to "hard" or "soft"; Weights (0-100 per field) switches
// off adaptive weighting when non-nil.
type SearchRequest struct {
	Material      Material
	TopK          int
	Constraints   map[string]string
	Location      *LocationFilter
	AvailableTime *TimeRange
	Weights       map[string]int
}

// Match is one ranked result.
type Match struct {
	Material  StoredMaterial
	Score     float64
	Breakdown map[string]float64
}

// SearchResult carries the ranked matches and the weights that
// produced the order.
type SearchResult struct {
	Matches []Match
	Weights map[string]float64
}

// Search runs the full retrieval pipeline: per-field vector fan-out,
// constraint filtering and weighted ranking.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	start := time.Now()

	domReq, err := searchRequestToDomain(req)
	if err != nil {
		c.obs.observe("search", start, err)
		return SearchResult{}, err
	}

	ranking, err := c.retrievalSvc.Retrieve(ctx, &domReq)
	c.obs.observe("search", start, err)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	matches := make([]Match, len(ranking.Matches))
	for i := range ranking.Matches {
		m := &ranking.Matches[i]
		matches[i] = Match{
			Material:  storedFromDomain(m.Stored()),
			Score:     m.Score(),
			Breakdown: breakdownToMap(m.Breakdown()),
		}
	}

	weights := make(map[string]float64, len(ranking.Weights))
	for f, w := range ranking.Weights {
		weights[string(f)] = w
	}

	return SearchResult{Matches: matches, Weights: weights}, nil
}

func searchRequestToDomain(req SearchRequest) (request.Request, error) {
	var cons constraint.Set
	if req.Constraints != nil {
		levels := make(map[scoring.Field]constraint.Level, len(req.Constraints))
		for k, v := range req.Constraints {
			levels[scoring.Field(k)] = constraint.Level(v)
		}
		var err error
		cons, err = constraint.New(levels)
		if err != nil {
			return request.Request{}, domain.NewValidationError(domain.FieldViolation{
				Field: "constraints", Reason: err.Error(),
			})
		}
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

	var tr *material.TimeRange
	if req.AvailableTime != nil {
		tr = &material.TimeRange{From: req.AvailableTime.From, To: req.AvailableTime.To}
	}

	var weights map[scoring.Field]int
	if req.Weights != nil {
		weights = make(map[scoring.Field]int, len(req.Weights))
		for k, v := range req.Weights {
			weights[scoring.Field(k)] = v
		}
	}

	m := materialToDomain(req.Material)
	r, err := request.New(&m, req.TopK, cons, loc, tr, weights)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return r, nil
}

func breakdownToMap(b scoring.Breakdown) map[string]float64 {
	out := make(map[string]float64, len(b))
	for f, s := range b {
		if s.Defined() {
			out[string(f)] = s.Value()
		}
	}
	return out
}
