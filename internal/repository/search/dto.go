package search

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	domat "github.com/gerbernoah/material-similarity-matcher/internal/domain/material"
)

// Hash field names for vector-index entries. The meta fields exist only
// on name-index entries and double as FT NUMERIC schema fields.
const (
	fieldVector    = "vector"
	fieldScore     = "__vector_score"
	fieldPrice     = "price"
	fieldQuality   = "quality"
	fieldWidth     = "width"
	fieldHeight    = "height"
	fieldDepth     = "depth"
	fieldLat       = "lat"
	fieldLon       = "lon"
	fieldAvailFrom = "avail_from"
	fieldAvailTo   = "avail_to"
)

// metaFields are requested via RETURN when the caller needs the
// metadata projection alongside the similarity score.
var metaFields = []string{
	fieldPrice, fieldQuality,
	fieldWidth, fieldHeight, fieldDepth,
	fieldLat, fieldLon,
	fieldAvailFrom, fieldAvailTo,
}

// buildMetaFields flattens the metadata projection into numeric hash
// fields. Times are stored as unix seconds so FT NUMERIC can index them.
func buildMetaFields(fields map[string]string, meta *domat.MetaData) {
	putFloat(fields, fieldPrice, meta.Price)
	putFloat(fields, fieldQuality, meta.Quality)
	if meta.Size != nil {
		putFloat(fields, fieldWidth, meta.Size.Width)
		putFloat(fields, fieldHeight, meta.Size.Height)
		putFloat(fields, fieldDepth, meta.Size.Depth)
	}
	if meta.Location != nil {
		fields[fieldLat] = formatFloat(meta.Location.Latitude)
		fields[fieldLon] = formatFloat(meta.Location.Longitude)
	}
	if meta.AvailableTime != nil {
		putUnix(fields, fieldAvailFrom, meta.AvailableTime.From)
		putUnix(fields, fieldAvailTo, meta.AvailableTime.To)
	}
}

// parseMetaFields reconstructs the metadata projection from FT RETURN
// fields. Absent fields stay nil, preserving presence semantics.
func parseMetaFields(fields map[string]string) *domat.MetaData {
	meta := &domat.MetaData{
		Price:   getFloat(fields, fieldPrice),
		Quality: getFloat(fields, fieldQuality),
	}

	width := getFloat(fields, fieldWidth)
	height := getFloat(fields, fieldHeight)
	depth := getFloat(fields, fieldDepth)
	if width != nil || height != nil || depth != nil {
		meta.Size = &domat.Dimensions{Width: width, Height: height, Depth: depth}
	}

	lat := getFloat(fields, fieldLat)
	lon := getFloat(fields, fieldLon)
	if lat != nil && lon != nil {
		meta.Location = &domat.GeoPoint{Latitude: *lat, Longitude: *lon}
	}

	from := getUnix(fields, fieldAvailFrom)
	to := getUnix(fields, fieldAvailTo)
	if from != nil || to != nil {
		meta.AvailableTime = &domat.TimeRange{From: from, To: to}
	}

	return meta
}

func putFloat(fields map[string]string, key string, v *float64) {
	if v != nil {
		fields[key] = formatFloat(*v)
	}
}

func putUnix(fields map[string]string, key string, t *time.Time) {
	if t != nil {
		fields[key] = strconv.FormatInt(t.Unix(), 10)
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

func getUnix(fields map[string]string, key string) *time.Time {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
