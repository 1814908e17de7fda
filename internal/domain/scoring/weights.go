package scoring

import (
	"fmt"
	"math"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Weights maps scorable fields to non-negative weights. At the point
// weights are applied, the weights of fields with a defined score sum
// to 1, or all are 0 when the query supplies no data at all.
type Weights map[Field]float64

// DefaultWeights is the fixed table the adaptive resolver starts from.
// The values sum to 1.
func DefaultWeights() Weights {
	return Weights{
		FieldName:         0.20,
		FieldDescription:  0.20,
		FieldPrice:        0.15,
		FieldQuality:      0.15,
		FieldLocation:     0.10,
		FieldAvailability: 0.10,
		FieldSize:         0.10,
	}
}

// Validate checks that the table covers every scorable field with
// non-negative weights summing to 1.
func (w Weights) Validate() error {
	var sum float64
	for _, f := range Fields() {
		v, ok := w[f]
		if !ok {
			return fmt.Errorf("weight for %q is missing", f)
		}
		if v < 0 {
			return fmt.Errorf("weight for %q must not be negative", f)
		}
		sum += v
	}
	if math.Abs(sum-1) > normalizedWeightEpsilon {
		return fmt.Errorf("weights must sum to 1, got %g", sum)
	}
	return nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// normalized rescales the weights to sum to 1. An all-zero table stays
// all-zero.
func (w Weights) normalized() Weights {
	sum := w.Sum()
	out := make(Weights, len(w))
	for f, v := range w {
		if sum == 0 {
			out[f] = 0
		} else {
			out[f] = v / sum
		}
	}
	return out
}

// Presence records, per scorable field, whether the query supplied
// meaningful data. It is computed once per query, never per candidate.
type Presence map[Field]bool

// DetectPresence inspects a query material and reports which fields
// carry meaningful data under the presence rules of the material
// package (trimmed text, positive price, quality floor, coordinate
// epsilon, at least one time bound, at least one dimension).
func DetectPresence(m *material.Material) Presence {
	return Presence{
		FieldName:         m.HasName(),
		FieldDescription:  m.HasDescription(),
		FieldPrice:        m.HasPrice(),
		FieldQuality:      m.HasQuality(),
		FieldLocation:     m.HasLocation(),
		FieldAvailability: m.HasAvailability(),
		FieldSize:         m.HasSize(),
	}
}

// Resolver produces the weight vector for a query from an immutable
// default table.
type Resolver struct {
	defaults Weights
}

// NewResolver creates a resolver over a validated default table.
func NewResolver(defaults Weights) (*Resolver, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("default weights: %w", err)
	}
	return &Resolver{defaults: defaults}, nil
}

// Adaptive derives weights from field presence: absent fields are
// zeroed and the rest renormalized to sum to 1. A query with no
// discriminating field at all yields an all-zero vector.
func (r *Resolver) Adaptive(presence Presence) Weights {
	w := make(Weights, len(r.defaults))
	for f, v := range r.defaults {
		if presence[f] {
			w[f] = v
		} else {
			w[f] = 0
		}
	}
	return w.normalized()
}

// Explicit rescales caller-supplied 0-100 weights to [0,1], forces
// the name weight to 0 (name similarity only retrieves candidates in
// this mode, it never ranks them) and renormalizes.
func (r *Resolver) Explicit(raw map[Field]int) Weights {
	w := make(Weights, len(raw))
	for _, f := range Fields() {
		w[f] = float64(raw[f]) / 100
	}
	w[FieldName] = 0
	return w.normalized()
}

// Reported recomputes the weight vector actually reflected in the
// output: fields for which no surviving candidate scored above zero
// are zeroed and the rest renormalized again.
func Reported(w Weights, breakdowns []Breakdown) Weights {
	covered := make(map[Field]bool, len(w))
	for _, b := range breakdowns {
		for f, s := range b {
			if s.Defined() && s.Value() > 0 {
				covered[f] = true
			}
		}
	}
	out := make(Weights, len(w))
	for f, v := range w {
		if covered[f] {
			out[f] = v
		} else {
			out[f] = 0
		}
	}
	return out.normalized()
}
