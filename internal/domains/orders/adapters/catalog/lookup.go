// Package catalog prices checkout line items from the catalog domain.
package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

var _ ports.CatalogLookup = (*Lookup)(nil)

// Lookup reads entries straight from the catalog repository so checkout always
// uses the current price.
type Lookup struct {
	repo catalogports.Repository
	lang i18n.Language
}

// NewLookup returns a lookup that records line item names in lang.
func NewLookup(repo catalogports.Repository, lang i18n.Language) *Lookup {
	if !lang.IsSupported() {
		lang = i18n.English
	}
	return &Lookup{repo: repo, lang: lang}
}

func (l *Lookup) LookupEntry(ctx context.Context, id string) (*ports.CatalogItem, error) {
	projection, err := l.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrUnknownEntry, id)
		}
		return nil, err
	}
	entry := projection.Entity
	return &ports.CatalogItem{
		ID:        entry.ID,
		Name:      entry.Name(l.lang),
		UnitPrice: entry.Price,
	}, nil
}
