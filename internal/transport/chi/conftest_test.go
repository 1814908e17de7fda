package chi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	healthuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/health"
	ingestuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/ingest"
	retrievaluc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/retrieval"
)

// mockIndex answers both the writer and searcher sides of the vector
// index, so one fixture backs ingest and retrieval.
type mockIndex struct {
	entries   []ingestuc.Entry
	deleted   []string
	putErr    error
	searchFn  func(index domain.IndexName, k int, withMeta bool) ([]retrievaluc.Hit, error)
	searchErr error
}

func (m *mockIndex) Put(_ context.Context, entries []ingestuc.Entry) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockIndex) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockIndex) SearchKNN(
	_ context.Context, index domain.IndexName, _ []float32, k int, withMeta bool,
) ([]retrievaluc.Hit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.searchFn != nil {
		return m.searchFn(index, k, withMeta)
	}
	return nil, nil
}

// mockMaterials is a map-backed material store.
type mockMaterials struct {
	items  map[string]material.Stored
	putErr error
}

func newMockMaterials() *mockMaterials {
	return &mockMaterials{items: map[string]material.Stored{}}
}

func (m *mockMaterials) Put(_ context.Context, items []material.Stored) error {
	if m.putErr != nil {
		return m.putErr
	}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return nil
}

func (m *mockMaterials) Get(_ context.Context, id string) (material.Stored, error) {
	it, ok := m.items[id]
	if !ok {
		return material.Stored{}, domain.ErrMaterialNotFound
	}
	return it, nil
}

func (m *mockMaterials) GetMulti(_ context.Context, ids []string) (map[string]material.Stored, error) {
	out := make(map[string]material.Stored)
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (m *mockMaterials) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrMaterialNotFound
	}
	delete(m.items, id)
	return nil
}

// mockEmbedder returns a fixed-size vector per text.
type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2, 0.3}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: 5 * len(texts)}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// testEnv wires a full server over the mocks.
type testEnv struct {
	index     *mockIndex
	materials *mockMaterials
	embed     *mockEmbedder
	pinger    *mockPinger
	router    chirouter.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		index:     &mockIndex{},
		materials: newMockMaterials(),
		embed:     &mockEmbedder{},
		pinger:    &mockPinger{},
	}

	resolver, err := scoring.NewResolver(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	ids := 0
	ingestSvc := ingestuc.New(env.index, env.materials, env.embed).
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		})
	retrievalSvc := retrievaluc.New(env.index, env.materials, env.embed, resolver)
	healthSvc := healthuc.New(env.pinger, nil)

	server := NewServer(ingestSvc, retrievalSvc, healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	server.Routes(r)
	env.router = r

	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
