package retrieval

import (
	"context"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Hit is one nearest-neighbor result from a single index.
type Hit struct {
	ID    string
	Score float64            // cosine similarity in [0,1]
	Meta  *material.MetaData // set only by the designated name index
}

// Index runs nearest-neighbor queries against the per-field vector
// indices.
type Index interface {
	SearchKNN(ctx context.Context, index domain.IndexName, vector []float32, k int, withMeta bool) ([]Hit, error)
}

// MaterialReader resolves stored materials by identifier. Identifiers
// that no longer resolve are omitted from the result, not errored.
type MaterialReader interface {
	GetMulti(ctx context.Context, ids []string) (map[string]material.Stored, error)
}

// Embedder vectorizes the query's text fields in one provider call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
