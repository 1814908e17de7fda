package ingest

import (
	"context"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Entry is one vector-index record to write. Meta is attached only to
// name-index entries; the other indexes store the vector alone.
type Entry struct {
	Index  domain.IndexName
	ID     string
	Vector []float32
	Meta   *material.MetaData
}

// IndexWriter persists and removes vector-index entries.
type IndexWriter interface {
	Put(ctx context.Context, entries []Entry) error
	Delete(ctx context.Context, id string) error
}

// MaterialStore persists full stored-form material records.
type MaterialStore interface {
	Put(ctx context.Context, items []material.Stored) error
	Get(ctx context.Context, id string) (material.Stored, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes a batch of texts in one provider call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
