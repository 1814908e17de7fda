// Package retrieval implements the multi-field retrieval and scoring
// engine: concurrent per-index similarity fan-out, candidate
// aggregation, constraint filtering, and weighted ranking.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/geo"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/constraint"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/result"
)

// hardScoreThreshold is the minimum per-field score a candidate must
// reach under a hard constraint on a scored field.
const hardScoreThreshold = 0.8

// thresholdFields are the scored fields subject to the hard threshold.
// Location and availability are enforced by boolean predicates instead.
var thresholdFields = []scoring.Field{
	scoring.FieldName, scoring.FieldDescription, scoring.FieldPrice,
	scoring.FieldQuality, scoring.FieldSize,
}

// Service executes retrieval requests.
type Service struct {
	index         Index
	materials     MaterialReader
	embed         Embedder
	resolver      *scoring.Resolver
	strictMissing bool
}

// New creates a retrieval service.
func New(index Index, materials MaterialReader, embed Embedder, resolver *scoring.Resolver) *Service {
	return &Service{index: index, materials: materials, embed: embed, resolver: resolver}
}

// WithStrictMissing makes hard geographic/time filters fail candidates
// that lack the data to evaluate them, instead of passing them through.
func (s *Service) WithStrictMissing(strict bool) *Service {
	s.strictMissing = strict
	return s
}

// Retrieve runs the full retrieval pipeline and returns the ranked
// matches together with the weights that actually influenced them.
func (s *Service) Retrieve(ctx context.Context, req *request.Request) (result.Ranking, error) {
	m := req.Material()

	presence := scoring.DetectPresence(m)
	weights := s.resolveWeights(req, presence)

	candidates, err := s.fanOut(ctx, m, req.TopK())
	if err != nil {
		return result.Ranking{}, err
	}

	survivors := s.filterAndScore(candidates, req, weights)
	rank(survivors)

	matches, err := s.resolveMatches(ctx, survivors, req.TopK())
	if err != nil {
		return result.Ranking{}, err
	}

	breakdowns := make([]scoring.Breakdown, len(matches))
	for i := range matches {
		breakdowns[i] = matches[i].Breakdown()
	}

	return result.Ranking{
		Matches: matches,
		Weights: scoring.Reported(weights, breakdowns),
	}, nil
}

func (s *Service) resolveWeights(req *request.Request, presence scoring.Presence) scoring.Weights {
	if raw := req.ExplicitWeights(); raw != nil {
		return s.resolver.Explicit(raw)
	}
	return s.resolver.Adaptive(presence)
}

// fanOut embeds the query's text fields in a single provider call,
// then queries every maintained index concurrently. Any sub-query
// failure aborts the whole retrieval; no partial ranking is produced.
func (s *Service) fanOut(ctx context.Context, m *material.Material, topK int) (map[string]*candidate, error) {
	queries := []indexQuery{{index: domain.NameIndex, text: m.Name, withMeta: true}}
	if m.HasDescription() {
		queries = append(queries, indexQuery{index: domain.DescriptionIndex, text: m.Description})
	}
	if m.HasClassification() {
		queries = append(queries, indexQuery{index: domain.ClassificationIndex, text: m.Classification.Text()})
	}

	texts := make([]string, len(queries))
	for i, q := range queries {
		texts[i] = q.text
	}

	embedded, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if len(embedded.Embeddings) != len(queries) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d: %w",
			len(embedded.Embeddings), len(queries), domain.ErrEmbeddingProviderError)
	}

	hits := make([][]Hit, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := s.index.SearchKNN(gctx, q.index, embedded.Embeddings[i], topK, q.withMeta)
			if err != nil {
				return fmt.Errorf("search %s index: %w", q.index, err)
			}
			hits[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(queries, hits), nil
}

// filterAndScore applies the binary hard predicates, computes each
// remaining candidate's breakdown and combined score, and enforces the
// hard-constraint threshold on scored fields.
func (s *Service) filterAndScore(
	candidates map[string]*candidate, req *request.Request, weights scoring.Weights,
) []*candidate {
	m := req.Material()
	cons := req.Constraints()

	survivors := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		// Binary predicates run first so excluded candidates are
		// never scored.
		if !s.passesLocationFilter(c, req) || !s.passesAvailabilityFilter(c, req) {
			continue
		}

		c.breakdown = score(m, c)

		if !passesThresholds(c.breakdown, cons, s.strictMissing) {
			continue
		}

		c.combined = combine(c.breakdown, weights)
		survivors = append(survivors, c)
	}
	return survivors
}

// passesLocationFilter enforces radius containment on the raw
// Haversine distance when the location constraint is hard. Candidates
// without the data to evaluate the filter pass unless strict mode is
// enabled.
func (s *Service) passesLocationFilter(c *candidate, req *request.Request) bool {
	loc := req.Location()
	if loc == nil || !req.Constraints().IsHard(scoring.FieldLocation) {
		return true
	}
	if c.meta == nil || !c.meta.Location.IsSet() {
		return !s.strictMissing
	}
	d := geo.Haversine(
		loc.Center.Latitude, loc.Center.Longitude,
		c.meta.Location.Latitude, c.meta.Location.Longitude,
	)
	return d <= loc.RadiusMeters()
}

// passesAvailabilityFilter enforces range-overlap existence when the
// availability constraint is hard, with the same permissive default
// for missing data.
func (s *Service) passesAvailabilityFilter(c *candidate, req *request.Request) bool {
	tr := req.AvailableTime()
	if tr == nil || !tr.IsBounded() || !req.Constraints().IsHard(scoring.FieldAvailability) {
		return true
	}
	if c.meta == nil || !c.meta.AvailableTime.IsBounded() {
		return !s.strictMissing
	}
	return scoring.RangesOverlap(tr, c.meta.AvailableTime)
}

// score computes the per-field breakdown for one candidate. Vector
// scores are always defined (0 when the candidate missed that index);
// structured scores are undefined when either side lacks the data.
func score(m *material.Material, c *candidate) scoring.Breakdown {
	b := scoring.Breakdown{
		scoring.FieldName:        scoring.ScoreOf(c.nameScore),
		scoring.FieldDescription: scoring.ScoreOf(c.descScore),
	}

	var meta material.MetaData
	if c.meta != nil {
		meta = *c.meta
	}

	var queryPrice, queryQuality *float64
	if m.HasPrice() {
		queryPrice = m.Price
	}
	if m.HasQuality() {
		queryQuality = m.Quality
	}
	var candQuality *float64
	if meta.Quality != nil && *meta.Quality >= material.MinQuality {
		candQuality = meta.Quality
	}

	b[scoring.FieldPrice] = scoring.PriceScore(queryPrice, meta.Price)
	b[scoring.FieldQuality] = scoring.QualityScore(queryQuality, candQuality)
	b[scoring.FieldLocation] = scoring.DistanceScore(m.Location, meta.Location)
	b[scoring.FieldAvailability] = scoring.AvailabilityScore(m.AvailableTime, meta.AvailableTime)
	b[scoring.FieldSize] = scoring.SizeScore(m.Size, meta.Size)

	return b
}

// passesThresholds checks every hard-constrained scored field against
// the fixed threshold. An undefined score under a hard constraint
// passes unless strict mode is enabled.
func passesThresholds(b scoring.Breakdown, cons constraint.Set, strict bool) bool {
	for _, f := range thresholdFields {
		if !cons.IsHard(f) {
			continue
		}
		s := b[f]
		if !s.Defined() {
			if strict {
				return false
			}
			continue
		}
		if s.Value() < hardScoreThreshold {
			return false
		}
	}
	return true
}

// combine folds the breakdown into the single ranking value over all
// fields with nonzero weight.
func combine(b scoring.Breakdown, weights scoring.Weights) float64 {
	pairs := make([]scoring.WeightedScore, 0, len(weights))
	for _, f := range scoring.Fields() {
		if weights[f] == 0 {
			continue
		}
		pairs = append(pairs, scoring.WeightedScore{Score: b[f], Weight: weights[f]})
	}
	return scoring.Combine(pairs)
}

// rank sorts by combined score descending, breaking ties by ascending
// identifier for reproducible output.
func rank(cands []*candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].combined != cands[j].combined {
			return cands[i].combined > cands[j].combined
		}
		return cands[i].id < cands[j].id
	})
}

// resolveMatches loads the stored records of the ranked candidates,
// silently dropping identifiers that no longer resolve, and truncates
// to topK.
func (s *Service) resolveMatches(ctx context.Context, ranked []*candidate, topK int) ([]result.Match, error) {
	if len(ranked) == 0 {
		return nil, nil
	}

	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.id
	}

	stored, err := s.materials.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve materials: %w", err)
	}

	matches := make([]result.Match, 0, topK)
	for _, c := range ranked {
		rec, ok := stored[c.id]
		if !ok {
			// Stale index entry; drop without failing the request.
			continue
		}
		matches = append(matches, result.NewMatch(rec, c.combined, c.breakdown))
		if len(matches) == topK {
			break
		}
	}
	return matches, nil
}
