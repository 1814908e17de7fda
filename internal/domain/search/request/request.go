// Package request defines the validated retrieval request.
package request

import (
	"fmt"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/geo"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/constraint"
)

// Result count bounds.
const (
	DefaultTopK = 5
	MaxTopK     = 10
)

// LocationSearch is a hard radius filter around a center coordinate.
// It never contributes a weighted score; the weighted location score
// is a separate decay over raw distance.
type LocationSearch struct {
	Center   material.GeoPoint
	RadiusKm float64
}

// RadiusMeters returns the radius in meters.
func (l *LocationSearch) RadiusMeters() float64 { return l.RadiusKm * 1000 }

// Request is a validated retrieval query.
type Request struct {
	queryMaterial *material.Material
	topK          int
	constraints   constraint.Set
	location      *LocationSearch
	availableTime *material.TimeRange
	weights       map[scoring.Field]int // nil selects adaptive weighting
}

// New validates and normalizes retrieval parameters. topK defaults to
// 5 and is bounded by contract to 1-10. A nil weights map selects
// adaptive presence-based weighting; a non-nil map is the explicit
// 0-100 mode.
func New(
	m *material.Material,
	topK int,
	constraints constraint.Set,
	location *LocationSearch,
	availableTime *material.TimeRange,
	weights map[scoring.Field]int,
) (Request, error) {
	var violations []domain.FieldViolation

	if m == nil {
		return Request{}, domain.NewValidationError(domain.FieldViolation{
			Field: "material", Reason: "is required",
		})
	}
	violations = append(violations, m.Validate()...)

	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 || topK > MaxTopK {
		violations = append(violations, domain.FieldViolation{
			Field: "topK", Reason: fmt.Sprintf("must be between 1 and %d", MaxTopK),
		})
	}

	if location != nil {
		if location.RadiusKm <= 0 {
			violations = append(violations, domain.FieldViolation{
				Field: "location.radiusKm", Reason: "must be positive",
			})
		}
		if !geo.ValidateCoordinates(location.Center.Latitude, location.Center.Longitude) {
			violations = append(violations, domain.FieldViolation{
				Field: "location", Reason: "coordinates out of range",
			})
		}
	}

	for f, v := range weights {
		if !f.IsValid() {
			violations = append(violations, domain.FieldViolation{
				Field: "weights." + string(f), Reason: "unknown field",
			})
			continue
		}
		if v < 0 || v > 100 {
			violations = append(violations, domain.FieldViolation{
				Field: "weights." + string(f), Reason: "must be between 0 and 100",
			})
		}
	}

	if len(violations) > 0 {
		return Request{}, domain.NewValidationError(violations...)
	}

	if constraints == nil {
		constraints = constraint.Set{}
	}

	return Request{
		queryMaterial: m,
		topK:          topK,
		constraints:   constraints,
		location:      location,
		availableTime: availableTime,
		weights:       weights,
	}, nil
}

// Material returns the query material.
func (r *Request) Material() *material.Material { return r.queryMaterial }

// TopK returns the requested result count.
func (r *Request) TopK() int { return r.topK }

// Constraints returns the per-field hard/soft tags.
func (r *Request) Constraints() constraint.Set { return r.constraints }

// Location returns the hard radius filter, nil if absent.
func (r *Request) Location() *LocationSearch { return r.location }

// AvailableTime returns the hard overlap filter range, nil if absent.
func (r *Request) AvailableTime() *material.TimeRange { return r.availableTime }

// ExplicitWeights returns the caller-supplied 0-100 weights, nil in
// adaptive mode.
func (r *Request) ExplicitWeights() map[scoring.Field]int { return r.weights }
