// Package storefrontserver is the gin transport for the storefront API.
package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}

	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handlers of every API.
type ApiHandleFunctions struct {
	// Routes for the CatalogAPI part of the API
	CatalogAPI CatalogAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"SearchCatalog",
			http.MethodGet,
			"/search",
			handleFunctions.CatalogAPI.SearchCatalog,
		},
		{
			"ListCatalogEntries",
			http.MethodGet,
			"/catalog",
			handleFunctions.CatalogAPI.ListCatalogEntries,
		},
		{
			"GetCatalogEntry",
			http.MethodGet,
			"/catalog/:entryId",
			handleFunctions.CatalogAPI.GetCatalogEntry,
		},
		{
			"AddCatalogEntry",
			http.MethodPost,
			"/catalog",
			handleFunctions.CatalogAPI.AddCatalogEntry,
		},
		{
			"UpdateCatalogEntry",
			http.MethodPut,
			"/catalog/:entryId",
			handleFunctions.CatalogAPI.UpdateCatalogEntry,
		},
		{
			"DeleteCatalogEntry",
			http.MethodDelete,
			"/catalog/:entryId",
			handleFunctions.CatalogAPI.DeleteCatalogEntry,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			"TrackOrder",
			http.MethodGet,
			"/orders/track/:trackingCode",
			handleFunctions.OrderAPI.TrackOrder,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
	}
}
