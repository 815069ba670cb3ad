//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/go-storefront-api/test/pact"

	storefrontserver "github.com/Apurer/go-storefront-api/go"
	catalogmemory "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-storefront-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	ordercatalog "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/messages"
	orderobs "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogMugs: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
			}
			return nil, nil
		},
		pacttest.StateOrderPending: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
				app.seedOrder(t, pacttest.PendingOrderID, pacttest.PendingTrackingCode)
			}
			return nil, nil
		},
		pacttest.StateOrderCancelled: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
				app.seedOrder(t, pacttest.CancelledOrderID, pacttest.CancelledTrackingCode)
				app.setStatus(t, pacttest.CancelledOrderID, "cancelled")
			}
			return nil, nil
		},
		pacttest.StateNoOrders: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds its in-memory stack on every reset so each
// interaction starts from an empty catalog and order book.
type contractProviderApp struct {
	mu       sync.RWMutex
	router   http.Handler
	catalog  catalogports.Service
	orders   orderports.Service
	nextID   string
	nextCode string
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	catalogRepo := catalogmemory.NewRepository()
	coreCatalog := catalogapp.NewService(catalogRepo, catalogapp.WithSearchCache(catalogmemory.NewSearchCache(0)))
	coreOrders := orderapp.NewService(
		ordermemory.NewRepository(),
		ordercatalog.NewLookup(catalogRepo, i18n.English),
		messages.NewProvider(),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		orderapp.WithDeliveryFee(decimal.NewFromInt(60)),
		orderapp.WithIDGenerator(func() string { return a.nextID }),
		orderapp.WithTrackingCodeGenerator(func() string { return a.nextCode }),
	)
	catalogService := catalogobs.New(coreCatalog)
	orderService := orderobs.New(coreOrders)

	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI: storefrontserver.NewCatalogAPI(catalogService, i18n.English),
		OrderAPI:   storefrontserver.NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService), i18n.English),
	}
	router := gin.New()
	router.Use(gin.Recovery())

	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = catalogService
	a.orders = orderService
	a.router = storefrontserver.NewRouterWithGinEngine(router, handlers)
}

func (a *contractProviderApp) seedCatalog(t testing.TB) {
	t.Helper()
	for _, entry := range pacttest.ExampleCatalog() {
		tags := entry.Tags
		price := decimal.RequireFromString(entry.Price)
		_, err := a.catalog.AddEntry(context.Background(), catalogtypes.AddEntryInput{
			EntryMutationInput: catalogtypes.EntryMutationInput{
				ID: entry.ID,
				Text: map[i18n.Language]i18n.LocalizedText{
					i18n.English: {Name: entry.NameEN},
					i18n.Bengali: {Name: entry.NameBN},
				},
				Tags:  &tags,
				Price: &price,
			},
		})
		require.NoError(t, err)
	}
}

func (a *contractProviderApp) seedOrder(t testing.TB, id, code string) {
	t.Helper()
	a.nextID, a.nextCode = id, code
	_, err := a.orders.PlaceOrder(context.Background(), ordertypes.PlaceOrderInput{
		Customer: ordertypes.CustomerInput{Name: "Pact Customer", Phone: "01700000000", Address: "Dhaka"},
		Items:    []ordertypes.LineItemInput{{EntryID: "love-mug", Quantity: 1}},
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) setStatus(t testing.TB, id, status string) {
	t.Helper()
	_, err := a.orders.UpdateStatus(context.Background(), ordertypes.UpdateStatusInput{OrderID: id, Status: status})
	require.NoError(t, err)
}
