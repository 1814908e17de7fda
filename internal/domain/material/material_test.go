package material

import (
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

func TestValidate_Valid(t *testing.T) {
	m := Material{
		Name:    "oak beam",
		Price:   f(120),
		Quality: f(0.8),
		Size:    &Dimensions{Width: f(2.4)},
	}
	if v := m.Validate(); len(v) != 0 {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestValidate_Violations(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	m := Material{
		Name:          "   ",
		Price:         f(-1),
		Quality:       f(1.2),
		Size:          &Dimensions{Depth: f(0)},
		Location:      &GeoPoint{Latitude: 95, Longitude: 0},
		AvailableTime: &TimeRange{From: &from, To: &to},
	}
	violations := m.Validate()
	fields := make(map[string]bool)
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"name", "price", "quality", "size.depth", "location", "availableTime"} {
		if !fields[want] {
			t.Errorf("expected violation for %q, got %v", want, violations)
		}
	}
}

func TestHasQuality_BelowFloorNotSpecified(t *testing.T) {
	m := Material{Name: "x", Quality: f(0.3)}
	if m.HasQuality() {
		t.Error("quality below floor should count as not specified")
	}
	m.Quality = f(0.5)
	if !m.HasQuality() {
		t.Error("quality at floor should count as specified")
	}
}

func TestHasLocation_ZeroCoordinatesNotSet(t *testing.T) {
	m := Material{Name: "x", Location: &GeoPoint{}}
	if m.HasLocation() {
		t.Error("(0,0) must not count as a location")
	}
	m.Location = &GeoPoint{Latitude: 5e-5, Longitude: 8.5}
	if m.HasLocation() {
		t.Error("sub-epsilon latitude must not count as a location")
	}
	m.Location = &GeoPoint{Latitude: 47.37, Longitude: 8.54}
	if !m.HasLocation() {
		t.Error("real coordinate should count as a location")
	}
}

func TestHasPrice_ZeroNotSpecified(t *testing.T) {
	m := Material{Name: "x", Price: f(0)}
	if m.HasPrice() {
		t.Error("zero price should count as not specified")
	}
}

func TestClassificationText(t *testing.T) {
	c := &Classification{Type: "wood", Subcategory: "beam"}
	if got := c.Text(); got != "wood beam" {
		t.Fatalf("want %q, got %q", "wood beam", got)
	}
	var empty *Classification
	if empty.Text() != "" {
		t.Fatal("nil classification should yield empty text")
	}
}

func TestMeta_Projection(t *testing.T) {
	m := Material{
		Name:     "x",
		Price:    f(10),
		Location: &GeoPoint{Latitude: 1, Longitude: 2},
	}
	meta := m.Meta()
	if meta.Price == nil || *meta.Price != 10 {
		t.Error("price not projected")
	}
	if meta.Location == nil || meta.Location.Latitude != 1 {
		t.Error("location not projected")
	}
	if meta.Size != nil || meta.AvailableTime != nil {
		t.Error("unset fields must stay nil in projection")
	}
}
