package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrMaterialNotFound signals a missing stored material.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreUnavailable signals a vector index query failure.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)

// FieldViolation describes a single invalid request field.
type FieldViolation struct {
	Field  string
	Reason string
}

// ValidationError wraps ErrValidation with the list of violated fields.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error from field violations.
func NewValidationError(violations ...FieldViolation) error {
	return &ValidationError{Violations: violations}
}
