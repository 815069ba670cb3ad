package types

import (
	"github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
	"github.com/Apurer/go-storefront-api/internal/shared/projection"
)

// EntryProjection transports a catalog entry with its persistence metadata.
type EntryProjection = projection.Projection[*domain.Entry]

// EntryPage is one page of the catalog.
type EntryPage struct {
	Items    []*EntryProjection
	Page     int
	PageSize int
	Total    int
}

// SearchResult holds ranked entries. Ranked is false when the query was blank
// and Entries is a plain catalog page.
type SearchResult struct {
	Query    string
	Language i18n.Language
	Ranked   bool
	Entries  []*domain.Entry
}
