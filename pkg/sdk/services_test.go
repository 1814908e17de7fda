package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/result"
	healthuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/health"
)

func TestIngest_ConvertsAndReturnsIDs(t *testing.T) {
	ing := &mockIngest{
		ingestFn: func(_ context.Context, materials []material.Material) ([]material.Stored, error) {
			if len(materials) != 1 || materials[0].Name != "oak beam" {
				t.Fatalf("unexpected batch: %+v", materials)
			}
			return []material.Stored{{ID: "m1", Material: materials[0]}}, nil
		},
	}
	c := newTestClient(ing, nil, nil)

	stored, err := c.Ingest(context.Background(), []Material{{Name: "oak beam"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "m1" {
		t.Fatalf("unexpected result: %+v", stored)
	}
}

func TestIngest_Error(t *testing.T) {
	ing := &mockIngest{
		ingestFn: func(context.Context, []material.Material) ([]material.Stored, error) {
			return nil, domain.ErrEmbeddingProviderError
		},
	}
	c := newTestClient(ing, nil, nil)

	_, err := c.Ingest(context.Background(), []Material{{Name: "oak"}})
	if !errors.Is(err, ErrEmbeddingProviderError) {
		t.Fatalf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestGetMaterial_NotFound(t *testing.T) {
	ing := &mockIngest{
		getFn: func(context.Context, string) (material.Stored, error) {
			return material.Stored{}, domain.ErrMaterialNotFound
		},
	}
	c := newTestClient(ing, nil, nil)

	_, err := c.GetMaterial(context.Background(), "missing")
	if !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("err = %v, want ErrMaterialNotFound", err)
	}
}

func TestDeleteMaterial(t *testing.T) {
	var deleted string
	ing := &mockIngest{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c := newTestClient(ing, nil, nil)

	if err := c.DeleteMaterial(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "m1" {
		t.Errorf("deleted = %q, want m1", deleted)
	}
}

func TestSearch_RanksAndConverts(t *testing.T) {
	ret := &mockRetrieval{
		retrieveFn: func(_ context.Context, req *request.Request) (result.Ranking, error) {
			if req.Material().Name != "oak beam" {
				t.Fatalf("unexpected query material: %+v", req.Material())
			}
			if req.TopK() != 3 {
				t.Fatalf("topK = %d, want 3", req.TopK())
			}
			match := result.NewMatch(
				material.Stored{ID: "m1", Material: material.Material{Name: "oak beam"}},
				0.91,
				scoring.Breakdown{scoring.FieldName: scoring.ScoreOf(0.91)},
			)
			return result.Ranking{
				Matches: []result.Match{match},
				Weights: scoring.Weights{scoring.FieldName: 1},
			}, nil
		},
	}
	c := newTestClient(nil, ret, nil)

	res, err := c.Search(context.Background(), SearchRequest{
		Material: Material{Name: "oak beam"},
		TopK:     3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Matches))
	}
	if res.Matches[0].Material.ID != "m1" || res.Matches[0].Score != 0.91 {
		t.Errorf("unexpected match: %+v", res.Matches[0])
	}
	if res.Matches[0].Breakdown["name"] != 0.91 {
		t.Errorf("breakdown[name] = %f, want 0.91", res.Matches[0].Breakdown["name"])
	}
	if res.Weights["name"] != 1 {
		t.Errorf("weights[name] = %f, want 1", res.Weights["name"])
	}
}

func TestSearch_InvalidConstraint(t *testing.T) {
	c := newTestClient(nil, &mockRetrieval{}, nil)

	_, err := c.Search(context.Background(), SearchRequest{
		Material:    Material{Name: "oak"},
		Constraints: map[string]string{"price": "strict"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSearch_MissingName(t *testing.T) {
	c := newTestClient(nil, &mockRetrieval{}, nil)

	_, err := c.Search(context.Background(), SearchRequest{Material: Material{}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestHealth(t *testing.T) {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"store":     healthuc.CheckOK,
			"embedding": healthuc.CheckError,
		},
	}}
	c := newTestClient(nil, nil, h)

	status := c.Health(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %s, want degraded", status.Status)
	}
	if status.Checks["embedding"] != "error" {
		t.Errorf("checks[embedding] = %s, want error", status.Checks["embedding"])
	}
}
