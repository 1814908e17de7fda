// Package ingest implements batch material ingestion: id assignment,
// embedding of the text fields in a single provider call, and persistence
// of both the vector-index entries and the full stored records.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain"
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// MaxBatchSize is the largest accepted ingest batch.
const MaxBatchSize = 100

// Service handles material ingestion and lifecycle.
type Service struct {
	index     IndexWriter
	materials MaterialStore
	embed     Embedder
	newID     func() string
}

// New creates an ingest service.
func New(index IndexWriter, materials MaterialStore, embed Embedder) *Service {
	return &Service{
		index:     index,
		materials: materials,
		embed:     embed,
		newID:     uuid.NewString,
	}
}

// WithIDGenerator overrides id assignment, mainly for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// embedJob remembers which material and index an embedded text belongs to.
type embedJob struct {
	position int
	index    domain.IndexName
}

// Ingest validates and persists a batch of materials. All text fields of
// the whole batch are embedded in one provider call; each material gets a
// fresh id and one index entry per present text field, with the metadata
// projection attached to the name-index entry only.
func (s *Service) Ingest(ctx context.Context, materials []material.Material) ([]material.Stored, error) {
	if err := validateBatch(materials); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(materials))
	jobs := make([]embedJob, 0, len(materials))
	for i := range materials {
		m := &materials[i]
		texts = append(texts, m.Name)
		jobs = append(jobs, embedJob{position: i, index: domain.NameIndex})
		if m.HasDescription() {
			texts = append(texts, m.Description)
			jobs = append(jobs, embedJob{position: i, index: domain.DescriptionIndex})
		}
		if m.HasClassification() {
			texts = append(texts, m.Classification.Text())
			jobs = append(jobs, embedJob{position: i, index: domain.ClassificationIndex})
		}
	}

	batch, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize batch: %w", err)
	}
	if len(batch.Embeddings) != len(texts) {
		return nil, fmt.Errorf(
			"embedding count mismatch: got %d, want %d: %w",
			len(batch.Embeddings), len(texts), domain.ErrEmbeddingProviderError,
		)
	}

	stored := make([]material.Stored, len(materials))
	for i := range materials {
		stored[i] = material.Stored{ID: s.newID(), Material: materials[i]}
	}

	entries := make([]Entry, 0, len(jobs))
	for j, job := range jobs {
		entry := Entry{
			Index:  job.index,
			ID:     stored[job.position].ID,
			Vector: batch.Embeddings[j],
		}
		if job.index == domain.NameIndex {
			meta := stored[job.position].Material.Meta()
			entry.Meta = &meta
		}
		entries = append(entries, entry)
	}

	if err := s.materials.Put(ctx, stored); err != nil {
		return nil, fmt.Errorf("store materials: %w", err)
	}
	if err := s.index.Put(ctx, entries); err != nil {
		return nil, fmt.Errorf("index materials: %w", err)
	}

	return stored, nil
}

// Get retrieves a stored material by id.
func (s *Service) Get(ctx context.Context, id string) (material.Stored, error) {
	m, err := s.materials.Get(ctx, id)
	if err != nil {
		return material.Stored{}, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// Delete removes a material record and all its index entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.materials.Get(ctx, id); err != nil {
		return fmt.Errorf("get material: %w", err)
	}
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove index entries: %w", err)
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

func validateBatch(materials []material.Material) error {
	if len(materials) == 0 {
		return domain.NewValidationError(domain.FieldViolation{
			Field: "materials", Reason: "batch must contain at least one material",
		})
	}
	if len(materials) > MaxBatchSize {
		return domain.NewValidationError(domain.FieldViolation{
			Field:  "materials",
			Reason: fmt.Sprintf("batch exceeds maximum of %d materials", MaxBatchSize),
		})
	}

	var violations []domain.FieldViolation
	for i := range materials {
		m := &materials[i]
		if !m.HasName() {
			violations = append(violations, domain.FieldViolation{
				Field:  fmt.Sprintf("materials[%d].name", i),
				Reason: "name is required",
			})
		}
		for _, v := range m.Validate() {
			violations = append(violations, domain.FieldViolation{
				Field:  fmt.Sprintf("materials[%d].%s", i, v.Field),
				Reason: v.Reason,
			})
		}
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}
