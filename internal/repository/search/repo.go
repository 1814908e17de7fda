// Package search maintains the per-field FT vector indices: entry
// writes on ingest, KNN queries on retrieval, and index bootstrap.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gerbernoah/material-similarity-matcher/internal/db"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/usecase/ingest"
	"github.com/gerbernoah/material-similarity-matcher/internal/usecase/retrieval"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSW graph parameter defaults.
const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

// HNSWConfig tunes the HNSW graph of newly created indices.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/retrieval.Index and usecase/ingest.IndexWriter.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates an index repository. dim is the embedding dimensionality
// used when bootstrapping FT indices.
func New(s store, dim int) *Repo {
	return &Repo{
		store: s,
		dim:   dim,
		hnsw:  HNSWConfig{M: defaultHNSWM, EFConstruct: defaultHNSWEFConstruct},
	}
}

// WithHNSW overrides the HNSW graph parameters. Zero values keep the
// defaults.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndexes creates any missing FT index. Existing indices are left
// untouched, so redeploys with the same schema are idempotent.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, index := range domain.IndexNames() {
		exists, err := r.store.IndexExists(ctx, ftIndexName(index))
		if err != nil {
			return fmt.Errorf("check index %s: %w", index, err)
		}
		if exists {
			continue
		}

		def, err := r.indexDefinition(index)
		if err != nil {
			return fmt.Errorf("define index %s: %w", index, err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", index, err)
		}
	}
	return nil
}

func (r *Repo) indexDefinition(index domain.IndexName) (*db.IndexDefinition, error) {
	b := db.NewIndex(ftIndexName(index)).
		Prefix(entryPrefix(index)).
		VectorHNSW(fieldVector, r.dim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct)

	// Only the name index carries the metadata projection.
	if index == domain.NameIndex {
		for _, f := range metaFields {
			b = b.Numeric(f)
		}
	}
	return b.Build()
}

// Put writes all index entries in a single pipelined round-trip.
func (r *Repo) Put(ctx context.Context, entries []ingest.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(entries))
	for i, e := range entries {
		fields := map[string]string{fieldVector: vectorToBytes(e.Vector)}
		if e.Meta != nil {
			buildMetaFields(fields, e.Meta)
		}
		items[i] = db.HashSetItem{Key: entryKey(e.Index, e.ID), Fields: fields}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put index entries: %w", err)
	}
	return nil
}

// Delete removes the material's entries from every maintained index.
func (r *Repo) Delete(ctx context.Context, id string) error {
	keys := make([]string, 0, len(domain.IndexNames()))
	for _, index := range domain.IndexNames() {
		keys = append(keys, entryKey(index, id))
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("delete index entries %s: %w", id, err)
	}
	return nil
}

// SearchKNN runs a nearest-neighbor query against one index. withMeta
// additionally returns the metadata projection stored on the entries.
func (r *Repo) SearchKNN(
	ctx context.Context, index domain.IndexName, vector []float32, k int, withMeta bool,
) ([]retrieval.Hit, error) {
	returnFields := []string{fieldScore}
	if withMeta {
		returnFields = append(returnFields, metaFields...)
	}

	q := &db.KNNQuery{
		IndexName:    ftIndexName(index),
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", index, domain.ErrVectorStoreUnavailable, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := entryPrefix(index)
	hits := make([]retrieval.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hit := retrieval.Hit{
			ID:    strings.TrimPrefix(entry.Key, prefix),
			Score: entry.Score,
		}
		if withMeta {
			hit.Meta = parseMetaFields(entry.Fields)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func ftIndexName(index domain.IndexName) string {
	return domain.KeyPrefix + "idx:" + string(index)
}

func entryKey(index domain.IndexName, id string) string {
	return entryPrefix(index) + id
}

func entryPrefix(index domain.IndexName) string {
	return domain.KeyPrefix + "idx:" + string(index) + ":"
}
