package search

import (
	"context"
	"testing"

	"github.com/gerbernoah/material-similarity-matcher/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetItems   []db.HashSetItem
	deletedKeys []string
	created     []*db.IndexDefinition
	existing    map[string]bool

	hsetErr     error
	delErr      error
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	createErr   error
	existsErr   error
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	m.hsetItems = append(m.hsetItems, items...)
	return nil
}

func (m *mockStore) DelMulti(_ context.Context, keys []string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deletedKeys = append(m.deletedKeys, keys...)
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, def)
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, name string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.existing[name], nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{existing: make(map[string]bool)}
	return New(ms, 4), ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func ptr[T any](v T) *T { return &v }
