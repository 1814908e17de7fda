// Package constraint models the per-field hard/soft tags of a
// retrieval request.
package constraint

import (
	"fmt"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/scoring"
)

// Level tags a field as a hard requirement or a soft preference.
type Level string

const (
	// Soft fields only contribute to the weighted combined score.
	Soft Level = "soft"
	// Hard fields exclude candidates that fail their threshold or
	// boolean predicate.
	Hard Level = "hard"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool { return l == Soft || l == Hard }

// Set maps fields to constraint levels. Absent fields default to soft.
type Set map[scoring.Field]Level

// New validates the given levels and field names.
func New(levels map[scoring.Field]Level) (Set, error) {
	s := make(Set, len(levels))
	for f, l := range levels {
		if !f.IsValid() {
			return nil, fmt.Errorf("unknown constraint field %q", f)
		}
		if !l.IsValid() {
			return nil, fmt.Errorf("constraint for %q must be %q or %q, got %q", f, Hard, Soft, l)
		}
		s[f] = l
	}
	return s, nil
}

// Level returns the level for f, defaulting to soft.
func (s Set) Level(f scoring.Field) Level {
	if l, ok := s[f]; ok {
		return l
	}
	return Soft
}

// IsHard reports whether f is a hard constraint.
func (s Set) IsHard(f scoring.Field) bool { return s.Level(f) == Hard }
