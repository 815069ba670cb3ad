package storefrontserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/go-storefront-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-storefront-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// IdempotencyKeyHeader carries the client-chosen checkout retry key.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service     orderports.Service
	workflows   orderports.WorkflowOrchestrator
	defaultLang i18n.Language
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator, defaultLang i18n.Language) OrderAPI {
	if !defaultLang.IsSupported() {
		defaultLang = i18n.Default
	}
	return OrderAPI{service: service, workflows: workflows, defaultLang: defaultLang}
}

// Post /orders
// Places an order from a checkout
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload ordermapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := ordermapper.ToPlaceOrderInput(payload, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	placed, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromProjection(placed, false))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /orders/track/:trackingCode
// Tracks an order by its tracking code
func (api *OrderAPI) TrackOrder(c *gin.Context) {
	lang, ok := bindLanguage(c, api.defaultLang)
	if !ok {
		return
	}
	view, err := api.service.Track(c.Request.Context(), ordertypes.TrackInput{TrackingCode: c.Param("trackingCode")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTrackingView(view, lang, false))
}

// Get /orders
// Lists every order
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjectionList(orders))
}

// Get /orders/:orderId
// Finds an order with its timeline
func (api *OrderAPI) GetOrder(c *gin.Context) {
	lang, ok := bindLanguage(c, api.defaultLang)
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{ID: c.Param("orderId")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromTrackingView(view, lang, true))
}

// Put /orders/:orderId/status
// Changes the status of an order
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload ordermapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateStatus(c.Request.Context(), ordertypes.UpdateStatusInput{
		OrderID: c.Param("orderId"),
		Status:  payload.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(updated, true))
}
