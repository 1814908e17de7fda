// Package scoring holds the pure scoring primitives: per-field monotonic
// scorers, the optional Score value, score breakdowns, and the weight
// resolution rules.
package scoring

// Field identifies one scorable attribute of a material.
type Field string

// Scorable fields. Name and description are scored by vector similarity,
// the rest by deterministic monotonic scorers over structured attributes.
const (
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldPrice        Field = "price"
	FieldQuality      Field = "quality"
	FieldLocation     Field = "location"
	FieldAvailability Field = "availability"
	FieldSize         Field = "size"
)

// Fields returns all scorable fields in stable order.
func Fields() []Field {
	return []Field{
		FieldName, FieldDescription, FieldPrice, FieldQuality,
		FieldLocation, FieldAvailability, FieldSize,
	}
}

// IsValid reports whether f names a known scorable field.
func (f Field) IsValid() bool {
	switch f {
	case FieldName, FieldDescription, FieldPrice, FieldQuality,
		FieldLocation, FieldAvailability, FieldSize:
		return true
	}
	return false
}
