package matcher

import (
	"context"
	"testing"
)

type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) (EmbeddingResult, error) {
	return EmbeddingResult{Embedding: []float32{0.1}}, nil
}

func TestNew_MissingAddr(t *testing.T) {
	_, err := New(context.Background(), WithEmbedder(noopEmbedder{}))
	if err == nil {
		t.Fatal("expected error without database address")
	}
}

func TestNew_MissingEmbedder(t *testing.T) {
	_, err := New(context.Background(), WithRedis("localhost:6379", "", ""))
	if err == nil {
		t.Fatal("expected error without embedder")
	}
}

func TestEmbedderAdapter_SingleFallback(t *testing.T) {
	a := &embedderAdapter{inner: noopEmbedder{}}

	res, err := a.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(res.Embeddings))
	}
}

type batchEmbedder struct {
	noopEmbedder
	calls int
}

func (b *batchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	b.calls++
	out := BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i := range texts {
		out.Embeddings[i] = []float32{0.2}
	}
	return out, nil
}

func TestEmbedderAdapter_UsesBatchWhenAvailable(t *testing.T) {
	be := &batchEmbedder{}
	a := &embedderAdapter{inner: be}

	res, err := a.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if be.calls != 1 {
		t.Errorf("expected 1 batch call, got %d", be.calls)
	}
}

func TestResolveWeights_Default(t *testing.T) {
	w := resolveWeights(nil)
	if err := w.Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestResolveWeights_Custom(t *testing.T) {
	w := resolveWeights(map[string]float64{"name": 0.5, "price": 0.5})
	if w["name"] != 0.5 || w["price"] != 0.5 {
		t.Fatalf("unexpected weights: %v", w)
	}
}
