package matcher

import (
	"context"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/result"
	healthuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/health"
)

type mockIngest struct {
	ingestFn func(ctx context.Context, materials []material.Material) ([]material.Stored, error)
	getFn    func(ctx context.Context, id string) (material.Stored, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockIngest) Ingest(ctx context.Context, materials []material.Material) ([]material.Stored, error) {
	return m.ingestFn(ctx, materials)
}

func (m *mockIngest) Get(ctx context.Context, id string) (material.Stored, error) {
	return m.getFn(ctx, id)
}

func (m *mockIngest) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockRetrieval struct {
	retrieveFn func(ctx context.Context, req *request.Request) (result.Ranking, error)
}

func (m *mockRetrieval) Retrieve(ctx context.Context, req *request.Request) (result.Ranking, error) {
	return m.retrieveFn(ctx, req)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// newTestClient builds a Client over mocks, without a database.
func newTestClient(ing *mockIngest, ret *mockRetrieval, h *mockHealth) *Client {
	return &Client{
		ingestSvc:    ing,
		retrievalSvc: ret,
		healthSvc:    h,
	}
}
