// Package material defines the query and stored forms of a material
// together with the presence rules that decide which attributes carry
// meaningful data.
package material

import (
	"math"
	"strings"
	"time"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/geo"
)

// Quality bounds of the normalized condition scale ("okay" .. "new").
// Values below MinQuality are treated as not specified, not as errors.
const (
	MinQuality = 0.5
	MaxQuality = 1.0
)

// coordEpsilon guards against uninitialized (0,0) coordinates.
const coordEpsilon = 1e-4

// Dimensions holds physical size in a shared unit. Each side is optional.
type Dimensions struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
}

// Any reports whether at least one dimension is set.
func (d *Dimensions) Any() bool {
	return d != nil && (d.Width != nil || d.Height != nil || d.Depth != nil)
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsSet reports whether the point carries a meaningful coordinate.
// Both components must exceed a small epsilon, so an uninitialized
// (0,0) never counts as a location.
func (p *GeoPoint) IsSet() bool {
	return p != nil &&
		math.Abs(p.Latitude) > coordEpsilon &&
		math.Abs(p.Longitude) > coordEpsilon
}

// TimeRange is an optionally bounded availability window.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsBounded reports whether at least one side of the range is set.
func (r *TimeRange) IsBounded() bool {
	return r != nil && (r.From != nil || r.To != nil)
}

// Classification is a descriptive code triplet used for embedding only.
type Classification struct {
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Text joins the non-empty parts into one embeddable string.
func (c *Classification) Text() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Type, c.Category, c.Subcategory} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Material is the query form of a material, without an identifier.
type Material struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	Quality        *float64        `json:"quality,omitempty"`
	Quantity       *int            `json:"quantity,omitempty"`
	Size           *Dimensions     `json:"size,omitempty"`
	Location       *GeoPoint       `json:"location,omitempty"`
	AvailableTime  *TimeRange      `json:"availableTime,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
}

// Stored is a material with its immutable ingestion-assigned identifier.
type Stored struct {
	ID string `json:"id"`
	Material
}

// MetaData is the reduced projection attached to the designated vector
// index entry. It carries everything the structured scorers need, so
// ranking does not require a second storage round-trip per candidate.
type MetaData struct {
	Price         *float64
	Quality       *float64
	Size          *Dimensions
	Location      *GeoPoint
	AvailableTime *TimeRange
}

// Meta extracts the MetaData projection of the material.
func (m *Material) Meta() MetaData {
	return MetaData{
		Price:         m.Price,
		Quality:       m.Quality,
		Size:          m.Size,
		Location:      m.Location,
		AvailableTime: m.AvailableTime,
	}
}

// HasName reports whether the name carries meaningful text.
func (m *Material) HasName() bool { return strings.TrimSpace(m.Name) != "" }

// HasDescription reports whether the description carries meaningful text.
func (m *Material) HasDescription() bool { return strings.TrimSpace(m.Description) != "" }

// HasPrice reports whether a strictly positive price is set.
func (m *Material) HasPrice() bool { return m.Price != nil && *m.Price > 0 }

// HasQuality reports whether quality is set within the valid scale.
// Stored defaults below the floor count as not specified.
func (m *Material) HasQuality() bool { return m.Quality != nil && *m.Quality >= MinQuality }

// HasSize reports whether at least one dimension is set.
func (m *Material) HasSize() bool { return m.Size.Any() }

// HasLocation reports whether a meaningful coordinate is set.
func (m *Material) HasLocation() bool { return m.Location.IsSet() }

// HasAvailability reports whether the availability window has a bound.
func (m *Material) HasAvailability() bool { return m.AvailableTime.IsBounded() }

// HasClassification reports whether the classification triplet has text.
func (m *Material) HasClassification() bool { return m.Classification.Text() != "" }

// Validate checks structural correctness of the material. Returned
// violations are empty for a valid material.
func (m *Material) Validate() []domain.FieldViolation {
	var violations []domain.FieldViolation

	if !m.HasName() {
		violations = append(violations, domain.FieldViolation{
			Field: "name", Reason: "is required",
		})
	}
	if m.Price != nil && *m.Price < 0 {
		violations = append(violations, domain.FieldViolation{
			Field: "price", Reason: "must not be negative",
		})
	}
	if m.Quality != nil && *m.Quality > MaxQuality {
		violations = append(violations, domain.FieldViolation{
			Field: "quality", Reason: "must not exceed 1.0",
		})
	}
	if m.Quantity != nil && *m.Quantity < 0 {
		violations = append(violations, domain.FieldViolation{
			Field: "quantity", Reason: "must not be negative",
		})
	}
	if m.Location != nil && !geo.ValidateCoordinates(m.Location.Latitude, m.Location.Longitude) {
		violations = append(violations, domain.FieldViolation{
			Field: "location", Reason: "coordinates out of range",
		})
	}
	violations = append(violations, validateSize(m.Size)...)
	if m.AvailableTime != nil && m.AvailableTime.From != nil && m.AvailableTime.To != nil &&
		m.AvailableTime.To.Before(*m.AvailableTime.From) {
		violations = append(violations, domain.FieldViolation{
			Field: "availableTime", Reason: "to must not precede from",
		})
	}

	return violations
}

func validateSize(d *Dimensions) []domain.FieldViolation {
	if d == nil {
		return nil
	}
	var violations []domain.FieldViolation
	check := func(name string, v *float64) {
		if v != nil && *v <= 0 {
			violations = append(violations, domain.FieldViolation{
				Field: "size." + name, Reason: "must be positive",
			})
		}
	}
	check("width", d.Width)
	check("height", d.Height)
	check("depth", d.Depth)
	return violations
}
