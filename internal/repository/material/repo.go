// Package material persists stored materials as Redis hashes, one hash
// per record under the service key prefix.
package material

import (
	"context"
	"fmt"

	"github.com/gerbernoah/material-similarity-matcher/internal/db"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	domat "github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

const keyPrefix = domain.KeyPrefix + "mat:"

// store is the consumer interface for material records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/ingest.MaterialStore and
// usecase/retrieval.MaterialReader.
type Repo struct {
	store store
}

// New creates a material repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put writes all records in a single pipelined round-trip.
func (r *Repo) Put(ctx context.Context, items []domat.Stored) error {
	if len(items) == 0 {
		return nil
	}

	sets := make([]db.HashSetItem, len(items))
	for i := range items {
		sets[i] = db.HashSetItem{
			Key:    recordKey(items[i].ID),
			Fields: buildHashFields(&items[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, sets); err != nil {
		return fmt.Errorf("put materials: %w", err)
	}
	return nil
}

// Get returns a stored material by id.
func (r *Repo) Get(ctx context.Context, id string) (domat.Stored, error) {
	fields, err := r.store.HGetAll(ctx, recordKey(id))
	if err != nil {
		return domat.Stored{}, fmt.Errorf("get material %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domat.Stored{}, domain.ErrMaterialNotFound
	}
	return parseHashFields(id, fields), nil
}

// GetMulti resolves ids in one pipelined round-trip. Ids with no
// backing record are left out of the result.
func (r *Repo) GetMulti(ctx context.Context, ids []string) (map[string]domat.Stored, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get materials: %w", err)
	}

	out := make(map[string]domat.Stored, len(ids))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		out[ids[i]] = parseHashFields(ids[i], fields)
	}
	return out, nil
}

// Delete removes a material record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := recordKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrMaterialNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func recordKey(id string) string {
	return keyPrefix + id
}
