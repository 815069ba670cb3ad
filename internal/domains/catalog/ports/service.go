package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
)

// Service defines the catalog use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddEntry(ctx context.Context, input catalogtypes.AddEntryInput) (*catalogtypes.EntryProjection, error)
	UpdateEntry(ctx context.Context, input catalogtypes.UpdateEntryInput) (*catalogtypes.EntryProjection, error)
	GetEntry(ctx context.Context, input catalogtypes.EntryIdentifier) (*catalogtypes.EntryProjection, error)
	DeleteEntry(ctx context.Context, input catalogtypes.EntryIdentifier) error
	ListEntries(ctx context.Context, input catalogtypes.ListEntriesInput) (*catalogtypes.EntryPage, error)
	Search(ctx context.Context, input catalogtypes.SearchInput) (*catalogtypes.SearchResult, error)
}
