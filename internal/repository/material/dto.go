package material

import (
	"strconv"
	"time"

	domat "github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Hash field names for stored material records.
const (
	fieldName             = "name"
	fieldDescription      = "description"
	fieldPrice            = "price"
	fieldQuality          = "quality"
	fieldQuantity         = "quantity"
	fieldWidth            = "width"
	fieldHeight           = "height"
	fieldDepth            = "depth"
	fieldLat              = "lat"
	fieldLon              = "lon"
	fieldAvailFrom        = "avail_from"
	fieldAvailTo          = "avail_to"
	fieldClassType        = "class_type"
	fieldClassCategory    = "class_category"
	fieldClassSubcategory = "class_subcategory"
)

// buildHashFields flattens a stored material into HSET fields. Absent
// optional fields are omitted, so presence survives the round-trip.
func buildHashFields(m *domat.Stored) map[string]string {
	fields := map[string]string{fieldName: m.Name}
	if m.Description != "" {
		fields[fieldDescription] = m.Description
	}
	putFloat(fields, fieldPrice, m.Price)
	putFloat(fields, fieldQuality, m.Quality)
	if m.Quantity != nil {
		fields[fieldQuantity] = strconv.Itoa(*m.Quantity)
	}
	if m.Size != nil {
		putFloat(fields, fieldWidth, m.Size.Width)
		putFloat(fields, fieldHeight, m.Size.Height)
		putFloat(fields, fieldDepth, m.Size.Depth)
	}
	if m.Location != nil {
		fields[fieldLat] = formatFloat(m.Location.Latitude)
		fields[fieldLon] = formatFloat(m.Location.Longitude)
	}
	if m.AvailableTime != nil {
		putTime(fields, fieldAvailFrom, m.AvailableTime.From)
		putTime(fields, fieldAvailTo, m.AvailableTime.To)
	}
	if m.Classification != nil {
		if m.Classification.Type != "" {
			fields[fieldClassType] = m.Classification.Type
		}
		if m.Classification.Category != "" {
			fields[fieldClassCategory] = m.Classification.Category
		}
		if m.Classification.Subcategory != "" {
			fields[fieldClassSubcategory] = m.Classification.Subcategory
		}
	}
	return fields
}

// parseHashFields reconstructs a stored material from HGETALL output.
func parseHashFields(id string, fields map[string]string) domat.Stored {
	m := domat.Stored{ID: id}
	m.Name = fields[fieldName]
	m.Description = fields[fieldDescription]
	m.Price = getFloat(fields, fieldPrice)
	m.Quality = getFloat(fields, fieldQuality)
	if v, ok := fields[fieldQuantity]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			m.Quantity = &n
		}
	}

	width := getFloat(fields, fieldWidth)
	height := getFloat(fields, fieldHeight)
	depth := getFloat(fields, fieldDepth)
	if width != nil || height != nil || depth != nil {
		m.Size = &domat.Dimensions{Width: width, Height: height, Depth: depth}
	}

	lat := getFloat(fields, fieldLat)
	lon := getFloat(fields, fieldLon)
	if lat != nil && lon != nil {
		m.Location = &domat.GeoPoint{Latitude: *lat, Longitude: *lon}
	}

	from := getTime(fields, fieldAvailFrom)
	to := getTime(fields, fieldAvailTo)
	if from != nil || to != nil {
		m.AvailableTime = &domat.TimeRange{From: from, To: to}
	}

	ct, cc, cs := fields[fieldClassType], fields[fieldClassCategory], fields[fieldClassSubcategory]
	if ct != "" || cc != "" || cs != "" {
		m.Classification = &domat.Classification{Type: ct, Category: cc, Subcategory: cs}
	}

	return m
}

func putFloat(fields map[string]string, key string, v *float64) {
	if v != nil {
		fields[key] = formatFloat(*v)
	}
}

func putTime(fields map[string]string, key string, t *time.Time) {
	if t != nil {
		fields[key] = t.UTC().Format(time.RFC3339Nano)
	}
}

func getFloat(fields map[string]string, key string) *float64 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func getTime(fields map[string]string, key string) *time.Time {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil
	}
	return &t
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
