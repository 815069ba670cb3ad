package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnknownEntry is returned when a checkout references a missing catalog entry.
var ErrUnknownEntry = errors.New("catalog entry not found")

// CatalogItem is the pricing view of a catalog entry used at checkout.
type CatalogItem struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// CatalogLookup resolves catalog entries for pricing (outbound/driven port).
type CatalogLookup interface {
	LookupEntry(ctx context.Context, id string) (*CatalogItem, error)
}
