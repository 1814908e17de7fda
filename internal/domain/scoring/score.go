package scoring

import (
	"math"
	"time"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/geo"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// DistanceDecayMeters is the geographic decay constant: the distance
// score is exactly 0.5 at this distance.
const DistanceDecayMeters = 10_000.0

// normalizedWeightEpsilon decides whether a weight sum counts as
// already normalized, so the combine rule does not divide twice.
const normalizedWeightEpsilon = 1e-4

// Score is an optional similarity value in [0,1]. The zero value is
// undefined, which scorers return whenever either side lacks the data
// they need. Undefined is never an error.
type Score struct {
	value   float64
	defined bool
}

// ScoreOf wraps a defined score value.
func ScoreOf(v float64) Score { return Score{value: v, defined: true} }

// NoScore is the undefined score.
func NoScore() Score { return Score{} }

// Defined reports whether the score carries a value.
func (s Score) Defined() bool { return s.defined }

// Value returns the score, or 0 when undefined.
func (s Score) Value() float64 { return s.value }

// Breakdown maps each scorable field to its score for one candidate.
type Breakdown map[Field]Score

// Value returns the score for f, 0 when absent or undefined.
func (b Breakdown) Value(f Field) float64 { return b[f].Value() }

// WeightedScore pairs a score with the weight it contributes under.
type WeightedScore struct {
	Score  Score
	Weight float64
}

// Combine folds weighted scores into one value. Undefined scores are
// ignored. When the remaining weights sum to 0 the result is 0. When
// they already sum to ~1.0 the weighted sum is returned as is, so
// pre-normalized weights are not normalized a second time.
func Combine(pairs []WeightedScore) float64 {
	var sum, weightSum float64
	for _, p := range pairs {
		if !p.Score.Defined() {
			continue
		}
		sum += p.Score.Value() * p.Weight
		weightSum += p.Weight
	}
	if weightSum == 0 {
		return 0
	}
	if math.Abs(weightSum-1) <= normalizedWeightEpsilon {
		return sum
	}
	return sum / weightSum
}

// CloserIsBetter scores how close match is to expected, symmetrically.
// Identical values score 1; the score decays with relative deviation.
func CloserIsBetter(expected, match float64) float64 {
	if expected == 0 {
		if match == 0 {
			return 1
		}
		return 1 / (1 + math.Abs(match))
	}
	return 1 / (1 + math.Abs(expected-match)/expected)
}

// LowerIsBetter scores match against expected where undershooting is
// free: any match at or below expected scores 1, overshooting decays
// with the relative excess.
func LowerIsBetter(expected, match float64) float64 {
	if match <= 0 {
		return 1
	}
	if expected <= 0 {
		return 1 / (1 + match)
	}
	return 1 / (1 + math.Max(0, (match-expected)/expected))
}

// PriceScore scores a candidate price against the requested price.
// A cheaper candidate is never penalized.
func PriceScore(query, candidate *float64) Score {
	if query == nil || candidate == nil {
		return NoScore()
	}
	return ScoreOf(LowerIsBetter(*query, *candidate))
}

// QualityScore scores a candidate quality against the requested
// quality with inverted polarity: the stored value plays the expected
// role, so a higher stored quality than requested is never penalized.
func QualityScore(query, candidate *float64) Score {
	if query == nil || candidate == nil {
		return NoScore()
	}
	return ScoreOf(LowerIsBetter(*candidate, *query))
}

// SizeScore averages CloserIsBetter across the dimensions both sides
// define. Undefined when neither side shares any dimension.
func SizeScore(query, candidate *material.Dimensions) Score {
	if !query.Any() || !candidate.Any() {
		return NoScore()
	}
	var pairs []WeightedScore
	dims := [][2]*float64{
		{query.Width, candidate.Width},
		{query.Height, candidate.Height},
		{query.Depth, candidate.Depth},
	}
	for _, d := range dims {
		if d[0] == nil || d[1] == nil {
			continue
		}
		pairs = append(pairs, WeightedScore{Score: ScoreOf(CloserIsBetter(*d[0], *d[1])), Weight: 1})
	}
	if len(pairs) == 0 {
		return NoScore()
	}
	return ScoreOf(Combine(pairs))
}

// DistanceScore scores geographic proximity with a smooth decay over
// the Haversine distance. Undefined when either point is missing or
// still at its zero value.
func DistanceScore(query, candidate *material.GeoPoint) Score {
	if !query.IsSet() || !candidate.IsSet() {
		return NoScore()
	}
	d := geo.Haversine(query.Latitude, query.Longitude, candidate.Latitude, candidate.Longitude)
	return ScoreOf(1 / (1 + d/DistanceDecayMeters))
}

// AvailabilityScore scores the overlap of two availability windows
// relative to the query span. Unbounded sides extend to infinity. A
// fully unbounded query span falls back to the overlap itself, so any
// overlap then scores 1. Undefined when either range has no bound.
func AvailabilityScore(query, candidate *material.TimeRange) Score {
	if !query.IsBounded() || !candidate.IsBounded() {
		return NoScore()
	}

	start, startBounded := laterFrom(query.From, candidate.From)
	end, endBounded := earlierTo(query.To, candidate.To)

	if startBounded && endBounded && !end.After(start) {
		return ScoreOf(0)
	}
	if !startBounded || !endBounded {
		// Infinite overlap dominates any span.
		return ScoreOf(1)
	}
	overlap := end.Sub(start).Seconds()

	if query.From == nil || query.To == nil {
		// No finite query span to relate the overlap to; the span
		// falls back to the overlap itself, so any overlap scores 1.
		return ScoreOf(1)
	}
	span := query.To.Sub(*query.From).Seconds()
	if span <= 0 {
		return ScoreOf(0)
	}
	return ScoreOf(math.Min(1, overlap/span))
}

// RangesOverlap reports whether two windows share any instant,
// treating unbounded sides as infinite.
func RangesOverlap(a, b *material.TimeRange) bool {
	if !a.IsBounded() || !b.IsBounded() {
		return false
	}
	start, startBounded := laterFrom(a.From, b.From)
	end, endBounded := earlierTo(a.To, b.To)
	if !startBounded || !endBounded {
		return true
	}
	return end.After(start)
}

func laterFrom(a, b *time.Time) (time.Time, bool) {
	switch {
	case a == nil && b == nil:
		return time.Time{}, false
	case a == nil:
		return *b, true
	case b == nil:
		return *a, true
	case a.After(*b):
		return *a, true
	default:
		return *b, true
	}
}

func earlierTo(a, b *time.Time) (time.Time, bool) {
	switch {
	case a == nil && b == nil:
		return time.Time{}, false
	case a == nil:
		return *b, true
	case b == nil:
		return *a, true
	case a.Before(*b):
		return *a, true
	default:
		return *b, true
	}
}
