// Package search ranks catalog entries against free-text queries.
//
// Scoring is precision-first: an entry earns points only for fields that
// contain the query (or, in names, one of its words), and
// entries with no matching field are dropped rather than fuzzily matched.
package search

// Weights is the relevance table. Each field adds its weight once per match
// as described on the field.
type Weights struct {
	// Name is added per language whose name contains the whole query.
	Name int
	// Description is added once when any language's description contains the whole query.
	Description int
	// Category is added when the category contains the whole query.
	Category int
	// Subcategory is added when the subcategory contains the whole query.
	Subcategory int
	// Tag is added per tag containing the whole query.
	Tag int
	// Feature is added per feature phrase, in any language, containing the whole query.
	Feature int
	// NameToken is added per query word per language whose name contains that word.
	NameToken int
}

// DefaultWeights is the storefront's production relevance table.
var DefaultWeights = Weights{
	Name:        10,
	Description: 8,
	Category:    6,
	Subcategory: 6,
	Tag:         5,
	Feature:     3,
	NameToken:   2,
}

const (
	// MaxResults caps a ranked result list after sorting.
	MaxResults = 20
	// MinTokenLength is the shortest query word, in runes, used for per-word name matching.
	MinTokenLength = 3
)
