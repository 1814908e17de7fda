package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Ingest validates, vectorizes and stores a batch of materials.
// Each returned StoredMaterial carries its assigned identifier.
func (c *Client) Ingest(ctx context.Context, materials []Material) ([]StoredMaterial, error) {
	start := time.Now()

	batch := make([]material.Material, len(materials))
	for i, m := range materials {
		batch[i] = materialToDomain(m)
	}

	stored, err := c.ingestSvc.Ingest(ctx, batch)
	c.obs.observe("ingest", start, err)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	out := make([]StoredMaterial, len(stored))
	for i, s := range stored {
		out[i] = storedFromDomain(s)
	}
	return out, nil
}

// GetMaterial returns a stored material by id.
func (c *Client) GetMaterial(ctx context.Context, id string) (StoredMaterial, error) {
	start := time.Now()

	stored, err := c.ingestSvc.Get(ctx, id)
	c.obs.observe("get_material", start, err)
	if err != nil {
		return StoredMaterial{}, fmt.Errorf("get material: %w", err)
	}
	return storedFromDomain(stored), nil
}

// DeleteMaterial removes a material and all its index entries.
func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	start := time.Now()

	err := c.ingestSvc.Delete(ctx, id)
	c.obs.observe("delete_material", start, err)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
