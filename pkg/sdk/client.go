package matcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gerbernoah/material-similarity-matcher/internal/db"
	dbRedis "github.com/gerbernoah/material-similarity-matcher/internal/db/redis"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/request"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/search/result"
	"github.com/gerbernoah/material-similarity-matcher/internal/repository/embcache"
	materialrepo "github.com/gerbernoah/material-similarity-matcher/internal/repository/material"
	searchrepo "github.com/gerbernoah/material-similarity-matcher/internal/repository/search"
	healthuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/health"
	ingestuc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/ingest"
	retrievaluc "github.com/gerbernoah/material-similarity-matcher/internal/usecase/retrieval"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultDimensions       = 1536
)

// Internal interfaces so tests can substitute the services.
type ingestUseCase interface {
	Ingest(ctx context.Context, materials []material.Material) ([]material.Stored, error)
	Get(ctx context.Context, id string) (material.Stored, error)
	Delete(ctx context.Context, id string) error
}

type retrievalUseCase interface {
	Retrieve(ctx context.Context, req *request.Request) (result.Ranking, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the matcher SDK entry point.
type Client struct {
	store        db.Store
	ingestSvc    ingestUseCase
	retrievalSvc retrievalUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a matcher Client and connects to the database.
// The provided context is used for the initial readiness check and
// index bootstrap.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("matcher: database address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("matcher: embedder required (use WithEmbedder)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("matcher: connect: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("matcher: database not ready: %w", err)
	}

	embedder := embcache.New(
		&embedderAdapter{inner: cfg.embedder}, store, nil, zap.NewNop(),
	)

	matRepo := materialrepo.New(store)
	idxRepo := searchrepo.New(store, cfg.vectorDimensions).WithHNSW(searchrepo.HNSWConfig{
		M:           cfg.hnswM,
		EFConstruct: cfg.hnswEFConstruct,
	})
	if err := idxRepo.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("matcher: ensure indexes: %w", err)
	}

	resolver, err := scoring.NewResolver(resolveWeights(cfg.defaultWeights))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("matcher: default weights: %w", err)
	}

	return &Client{
		store:     store,
		ingestSvc: ingestuc.New(idxRepo, matRepo, embedder),
		retrievalSvc: retrievaluc.New(idxRepo, matRepo, embedder, resolver).
			WithStrictMissing(cfg.strictMissing),
		healthSvc: healthuc.New(store, nil),
		obs:       obs,
	}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

func resolveWeights(raw map[string]float64) scoring.Weights {
	if len(raw) == 0 {
		return scoring.DefaultWeights()
	}
	w := make(scoring.Weights, len(raw))
	for k, v := range raw {
		w[scoring.Field(k)] = v
	}
	return w
}

// embedderAdapter bridges the SDK embedder contract to the domain one.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embedding,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed uses the provider's batch call when available and falls
// back to sequential single calls otherwise.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, err
		}
		return domain.BatchEmbeddingResult{
			Embeddings:   res.Embeddings,
			PromptTokens: res.PromptTokens,
			TotalTokens:  res.TotalTokens,
		}, nil
	}

	return domain.BatchFallback(ctx, a, texts)
}
