package matcher

import "time"

// Dimensions holds physical size in a shared unit. Each side is optional.
type Dimensions struct {
	Width  *float64
	Height *float64
	Depth  *float64
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// TimeRange is an optionally bounded availability window.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Classification is a descriptive code triplet used for embedding only.
type Classification struct {
	Type        string
	Category    string
	Subcategory string
}

// Material describes a material to ingest or to search with.
// Name is the only required attribute.
type Material struct {
	Name           string
	Description    string
	Price          *float64
	Quality        *float64
	Quantity       *int
	Size           *Dimensions
	Location       *GeoPoint
	AvailableTime  *TimeRange
	Classification *Classification
}

// StoredMaterial is a material with its ingestion-assigned identifier.
type StoredMaterial struct {
	ID string
	Material
}
