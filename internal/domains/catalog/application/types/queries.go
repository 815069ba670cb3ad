package types

import "github.com/Apurer/go-storefront-api/internal/shared/i18n"

// EntryIdentifier references a catalog entry by ID.
type EntryIdentifier struct {
	ID string
}

// ListEntriesInput pages through the catalog in catalog order. Page is 1-based;
// zero values fall back to the first page and the configured page size.
type ListEntriesInput struct {
	Page     int `validate:"gte=0"`
	PageSize int `validate:"gte=0,lte=100"`
}

// SearchInput is a free-text catalog query in the shopper's language.
type SearchInput struct {
	Query    string `validate:"max=256"`
	Language i18n.Language
}
