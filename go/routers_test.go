package storefrontserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmapper "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/http/mapper"
	catalogmemory "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-storefront-api/internal/domains/catalog/application"
	ordercatalog "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/catalog"
	ordermapper "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/http/mapper"
	ordermemory "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/messages"
	orderworkflows "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-storefront-api/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-storefront-api/internal/shared/errors"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogRepo := catalogmemory.NewRepository()
	catalogService := catalogapp.NewService(catalogRepo, catalogapp.WithSearchCache(catalogmemory.NewSearchCache(0)))
	orderService := orderapp.NewService(
		ordermemory.NewRepository(),
		ordercatalog.NewLookup(catalogRepo, i18n.English),
		messages.NewProvider(),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		orderapp.WithDeliveryFee(decimal.NewFromInt(60)),
	)
	handlers := ApiHandleFunctions{
		CatalogAPI: NewCatalogAPI(catalogService, i18n.English),
		OrderAPI:   NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService), i18n.English),
	}
	return NewRouterWithGinEngine(gin.New(), handlers)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func seedMugs(t *testing.T, router http.Handler) {
	t.Helper()
	entries := []map[string]any{
		{
			"id":            "love-mug",
			"localizedText": map[string]any{"en": map[string]string{"name": "Love Mug"}, "bn": map[string]string{"name": "ভালোবাসার মগ"}},
			"tags":          []string{"love", "mug"},
			"price":         "350.50",
		},
		{
			"id":            "magic-mug",
			"localizedText": map[string]any{"en": map[string]string{"name": "Magic Mug"}, "bn": map[string]string{"name": "জাদুর মগ"}},
			"tags":          []string{"magic"},
			"price":         "420",
		},
	}
	for _, entry := range entries {
		rec := doJSON(t, router, http.MethodPost, "/catalog", entry)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func placeOrder(t *testing.T, router http.Handler) ordermapper.Order {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/orders", ordermapper.CheckoutRequest{
		Customer: ordermapper.Customer{Name: "Rahim", Phone: "01700000000", Address: "Dhaka"},
		Items:    []ordermapper.CheckoutItem{{EntryID: "love-mug", Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[ordermapper.Order](t, rec)
}

func TestSearchRoute_RanksMugs(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)

	rec := doJSON(t, router, http.MethodGet, "/search?q=mug&lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(SearchRankedHeader))
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	results := decode[[]catalogmapper.Entry](t, rec)
	require.Len(t, results, 2)
	assert.Equal(t, "love-mug", results[0].ID)
	assert.Equal(t, "magic-mug", results[1].ID)

	rec = doJSON(t, router, http.MethodGet, "/search?q=%E0%A6%AE%E0%A6%97", nil, "Accept-Language", "bn-BD,bn;q=0.9")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bn", rec.Header().Get("Content-Language"))
	results = decode[[]catalogmapper.Entry](t, rec)
	require.Len(t, results, 2)
	assert.Equal(t, "ভালোবাসার মগ", results[0].Name)
}

func TestSearchRoute_BodyIsArray(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)

	rec := doJSON(t, router, http.MethodGet, "/search?q=nothing-matches&lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/search?q=mug&lang=en", nil)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	assert.Len(t, raw, 2)
}

func TestSearchRoute_BlankQueryListsCatalog(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)

	rec := doJSON(t, router, http.MethodGet, "/search?q=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Header().Get(SearchRankedHeader))
	assert.Len(t, decode[[]catalogmapper.Entry](t, rec), 2)
}

func TestCatalogRoutes(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)

	rec := doJSON(t, router, http.MethodGet, "/catalog?page=1&pageSize=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[catalogmapper.EntryPage](t, rec)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "love-mug", page.Items[0].ID)

	rec = doJSON(t, router, http.MethodGet, "/catalog?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/catalog", map[string]any{
		"id":            "love-mug",
		"localizedText": map[string]any{"en": map[string]string{"name": "Again"}, "bn": map[string]string{"name": "আবার"}},
		"price":         "1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/catalog/magic-mug", map[string]any{"price": "399"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[catalogmapper.Entry](t, rec)
	assert.True(t, decimal.NewFromInt(399).Equal(updated.Price))

	rec = doJSON(t, router, http.MethodDelete, "/catalog/magic-mug", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/catalog/magic-mug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderRoutes_PendingToDelivered(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)
	order := placeOrder(t, router)
	assert.Equal(t, "pending", order.Status)
	assert.Nil(t, order.Customer)
	assert.True(t, decimal.RequireFromString("761").Equal(order.AmountDue), order.AmountDue.String())

	rec := doJSON(t, router, http.MethodPut, "/orders/"+order.ID+"/status", ordermapper.StatusUpdate{Status: "delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/orders/track/"+order.TrackingCode+"?lang=bn", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tracking := decode[ordermapper.Tracking](t, rec)
	assert.Equal(t, "delivered", tracking.Order.Status)
	require.Len(t, tracking.Timeline, 2)
	assert.Equal(t, "pending", tracking.Timeline[0].Status)
	assert.Equal(t, "delivered", tracking.Timeline[1].Status)
	assert.Equal(t, tracking.Timeline[1].Messages["bn"], tracking.Timeline[1].Message)
}

func TestOrderRoutes_CancelledIsTerminal(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)
	order := placeOrder(t, router)

	rec := doJSON(t, router, http.MethodPut, "/orders/"+order.ID+"/status", ordermapper.StatusUpdate{Status: "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/orders/"+order.ID+"/status", ordermapper.StatusUpdate{Status: "pending"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[apierrors.ProblemDetail](t, rec)
	assert.Equal(t, apierrors.TypeTerminalState, problem.Type)

	rec = doJSON(t, router, http.MethodPut, "/orders/"+order.ID+"/status", ordermapper.StatusUpdate{Status: "bogus"})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, apierrors.TypeTerminalState, decode[apierrors.ProblemDetail](t, rec).Type)

	rec = doJSON(t, router, http.MethodGet, "/orders/"+order.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[ordermapper.Tracking](t, rec)
	assert.Equal(t, "cancelled", view.Order.Status)
	assert.Len(t, view.Timeline, 2)
	require.NotNil(t, view.Order.Customer)
}

func TestOrderRoutes_Errors(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)
	order := placeOrder(t, router)

	rec := doJSON(t, router, http.MethodPut, "/orders/"+order.ID+"/status", ordermapper.StatusUpdate{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/orders/missing/status", ordermapper.StatusUpdate{Status: "confirmed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/orders/track/SF-UNKNOWN", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders", ordermapper.CheckoutRequest{
		Customer: ordermapper.Customer{Name: "Rahim", Phone: "017", Address: "Dhaka"},
		Items:    []ordermapper.CheckoutItem{{EntryID: "missing", Quantity: 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderRoutes_IdempotencyKey(t *testing.T) {
	router := newTestRouter(t)
	seedMugs(t, router)
	checkout := ordermapper.CheckoutRequest{
		Customer: ordermapper.Customer{Name: "Rahim", Phone: "017", Address: "Dhaka"},
		Items:    []ordermapper.CheckoutItem{{EntryID: "magic-mug", Quantity: 1}},
	}

	first := doJSON(t, router, http.MethodPost, "/orders", checkout, IdempotencyKeyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := doJSON(t, router, http.MethodPost, "/orders", checkout, IdempotencyKeyHeader, "retry-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, decode[ordermapper.Order](t, first).ID, decode[ordermapper.Order](t, second).ID)

	checkout.Items[0].Quantity = 2
	conflict := doJSON(t, router, http.MethodPost, "/orders", checkout, IdempotencyKeyHeader, "retry-1")
	assert.Equal(t, http.StatusConflict, conflict.Code)

	rec := doJSON(t, router, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ordermapper.Order](t, rec), 1)
}
