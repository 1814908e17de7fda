package matcher

import "github.com/gerbernoah/material-similarity-matcher/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation             = domain.ErrValidation
	ErrMaterialNotFound       = domain.ErrMaterialNotFound
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrVectorStoreUnavailable = domain.ErrVectorStoreUnavailable
)
