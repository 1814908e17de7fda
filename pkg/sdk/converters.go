package matcher

import (
	"github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

func materialToDomain(m Material) material.Material {
	out := material.Material{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Quality:     m.Quality,
		Quantity:    m.Quantity,
	}
	if m.Size != nil {
		out.Size = &material.Dimensions{Width: m.Size.Width, Height: m.Size.Height, Depth: m.Size.Depth}
	}
	if m.Location != nil {
		out.Location = &material.GeoPoint{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}
	}
	if m.AvailableTime != nil {
		out.AvailableTime = &material.TimeRange{From: m.AvailableTime.From, To: m.AvailableTime.To}
	}
	if m.Classification != nil {
		out.Classification = &material.Classification{
			Type:        m.Classification.Type,
			Category:    m.Classification.Category,
			Subcategory: m.Classification.Subcategory,
		}
	}
	return out
}

func materialFromDomain(m material.Material) Material {
	out := Material{
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Quality:     m.Quality,
		Quantity:    m.Quantity,
	}
	if m.Size != nil {
		out.Size = &Dimensions{Width: m.Size.Width, Height: m.Size.Height, Depth: m.Size.Depth}
	}
	if m.Location != nil {
		out.Location = &GeoPoint{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}
	}
	if m.AvailableTime != nil {
		out.AvailableTime = &TimeRange{From: m.AvailableTime.From, To: m.AvailableTime.To}
	}
	if m.Classification != nil {
		out.Classification = &Classification{
			Type:        m.Classification.Type,
			Category:    m.Classification.Category,
			Subcategory: m.Classification.Subcategory,
		}
	}
	return out
}

func storedFromDomain(s material.Stored) StoredMaterial {
	return StoredMaterial{ID: s.ID, Material: materialFromDomain(s.Material)}
}
