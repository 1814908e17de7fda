package retrieval

import (
	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
)

// candidate is one merged entry of the per-index hit lists.
type candidate struct {
	id        string
	nameScore float64
	descScore float64
	meta      *material.MetaData
	breakdown scoring.Breakdown
	combined  float64
}

// indexQuery is one planned fan-out sub-query.
type indexQuery struct {
	index    domain.IndexName
	text     string
	withMeta bool
}

// aggregate merges independent per-index hit lists into one candidate
// map. A candidate seen by only one index keeps 0 for the other vector
// scores. Metadata comes exclusively from the designated name index;
// candidates without it rank on vector fields alone, with structured
// scores undefined.
func aggregate(queries []indexQuery, hits [][]Hit) map[string]*candidate {
	merged := make(map[string]*candidate)

	for i, q := range queries {
		for _, h := range hits[i] {
			c, ok := merged[h.ID]
			if !ok {
				c = &candidate{id: h.ID}
				merged[h.ID] = c
			}
			switch q.index {
			case domain.NameIndex:
				c.nameScore = h.Score
				c.meta = h.Meta
			case domain.DescriptionIndex:
				c.descScore = h.Score
			case domain.ClassificationIndex:
				// Classification similarity only retrieves candidates;
				// it carries no breakdown field.
			}
		}
	}

	return merged
}
