package scoring

import (
	"testing"

	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultWeights())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestDefaultWeights_Valid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
}

func TestNewResolver_RejectsBadTable(t *testing.T) {
	bad := DefaultWeights()
	bad[FieldName] = 0.5
	if _, err := NewResolver(bad); err == nil {
		t.Fatal("expected error for table not summing to 1")
	}
	delete(bad, FieldSize)
	if _, err := NewResolver(bad); err == nil {
		t.Fatal("expected error for missing field")
	}
}

func TestAdaptive_TextOnlyQuery(t *testing.T) {
	m := &material.Material{Name: "oak beam", Description: "reclaimed"}
	w := newResolver(t).Adaptive(DetectPresence(m))

	for _, field := range []Field{FieldPrice, FieldQuality, FieldLocation, FieldAvailability, FieldSize} {
		if w[field] != 0 {
			t.Errorf("weight for %s should be 0, got %f", field, w[field])
		}
	}
	if got := w[FieldName] + w[FieldDescription]; !almost(got, 1, 1e-9) {
		t.Errorf("name+description weights should sum to 1, got %f", got)
	}
	// Equal defaults stay equal after renormalization.
	if !almost(w[FieldName], 0.5, 1e-9) {
		t.Errorf("want 0.5 for name, got %f", w[FieldName])
	}
}

func TestAdaptive_EmptyQueryAllZero(t *testing.T) {
	w := newResolver(t).Adaptive(Presence{})
	if w.Sum() != 0 {
		t.Fatalf("want all-zero weights, got sum %f", w.Sum())
	}
}

func TestExplicit_NameZeroedAndRenormalized(t *testing.T) {
	raw := map[Field]int{
		FieldName:        80,
		FieldDescription: 30,
		FieldPrice:       30,
	}
	w := newResolver(t).Explicit(raw)
	if w[FieldName] != 0 {
		t.Errorf("name weight must be forced to 0, got %f", w[FieldName])
	}
	if !almost(w[FieldDescription], 0.5, 1e-9) || !almost(w[FieldPrice], 0.5, 1e-9) {
		t.Errorf("want 0.5/0.5, got %f/%f", w[FieldDescription], w[FieldPrice])
	}
	if !almost(w.Sum(), 1, 1e-9) {
		t.Errorf("weights should sum to 1, got %f", w.Sum())
	}
}

func TestDetectPresence(t *testing.T) {
	price := 49.0
	quality := 0.3
	m := &material.Material{
		Name:     "beam",
		Price:    &price,
		Quality:  &quality, // below floor: not specified
		Location: &material.GeoPoint{Latitude: 47.4, Longitude: 8.5},
	}
	p := DetectPresence(m)
	if !p[FieldName] || !p[FieldPrice] || !p[FieldLocation] {
		t.Errorf("expected name, price, location present: %v", p)
	}
	if p[FieldQuality] || p[FieldDescription] || p[FieldSize] || p[FieldAvailability] {
		t.Errorf("expected quality, description, size, availability absent: %v", p)
	}
}

func TestReported_ZeroesUncoveredFields(t *testing.T) {
	w := Weights{FieldName: 0.5, FieldDescription: 0.25, FieldPrice: 0.25}
	breakdowns := []Breakdown{
		{FieldName: ScoreOf(0.9), FieldPrice: ScoreOf(0)},
		{FieldName: ScoreOf(0.7), FieldPrice: NoScore()},
	}
	got := Reported(w, breakdowns)
	if got[FieldName] != 1 {
		t.Errorf("name should absorb all weight, got %f", got[FieldName])
	}
	if got[FieldDescription] != 0 || got[FieldPrice] != 0 {
		t.Errorf("uncovered fields must be 0: %v", got)
	}
}

func TestReported_NoSurvivorsAllZero(t *testing.T) {
	w := Weights{FieldName: 1}
	got := Reported(w, nil)
	if got[FieldName] != 0 {
		t.Fatalf("want 0, got %f", got[FieldName])
	}
}
