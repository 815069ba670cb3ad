package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

func TestLookup_ResolvesCurrentPrice(t *testing.T) {
	ctx := context.Background()
	repo := catalogmemory.NewRepository()
	entry, err := catalogdomain.NewEntry("love-mug", map[i18n.Language]i18n.LocalizedText{
		i18n.English: {Name: "Love Mug"},
		i18n.Bengali: {Name: "ভালোবাসার মগ"},
	}, decimal.RequireFromString("350.50"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, entry)
	require.NoError(t, err)

	item, err := NewLookup(repo, i18n.Bengali).LookupEntry(ctx, "love-mug")
	require.NoError(t, err)
	assert.Equal(t, "love-mug", item.ID)
	assert.Equal(t, "ভালোবাসার মগ", item.Name)
	assert.True(t, decimal.RequireFromString("350.50").Equal(item.UnitPrice))
}

func TestLookup_UnknownEntry(t *testing.T) {
	_, err := NewLookup(catalogmemory.NewRepository(), i18n.English).LookupEntry(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrUnknownEntry)
}
