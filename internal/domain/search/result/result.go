// Package result defines ranked retrieval output.
package result

import (
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
)

// Match is one ranked stored material with its combined score and
// per-field breakdown.
type Match struct {
	stored    material.Stored
	score     float64
	breakdown scoring.Breakdown
}

// NewMatch creates a match.
func NewMatch(stored material.Stored, score float64, breakdown scoring.Breakdown) Match {
	return Match{stored: stored, score: score, breakdown: breakdown}
}

// Stored returns the matched material.
func (m *Match) Stored() material.Stored { return m.stored }

// Score returns the combined [0,1] ranking value.
func (m *Match) Score() float64 { return m.score }

// Breakdown returns the per-field score breakdown.
func (m *Match) Breakdown() scoring.Breakdown { return m.breakdown }

// Ranking is the full retrieval response: ranked matches plus the
// weights that actually influenced the order.
type Ranking struct {
	Matches []Match
	Weights scoring.Weights
}
