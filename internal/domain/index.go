package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "matcher:"

// IndexName identifies one per-field vector index.
type IndexName string

// Maintained vector indices. The name index is the designated one: it
// alone carries the MetaData projection on its entries.
const (
	NameIndex           IndexName = "name"
	DescriptionIndex    IndexName = "description"
	ClassificationIndex IndexName = "classification"
)

// IndexNames returns all maintained indices in stable order.
func IndexNames() []IndexName {
	return []IndexName{NameIndex, DescriptionIndex, ClassificationIndex}
}
