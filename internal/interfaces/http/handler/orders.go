package handler

import (
	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/wms/backend/internal/application/fulfillment"
	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order listing and inspection requests
type OrderHandler struct {
	BaseHandler
	service *fulfillmentapp.FulfillmentService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *fulfillmentapp.FulfillmentService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrdersRequest represents order listing filters
type ListOrdersRequest struct {
	Type   string `form:"type" binding:"omitempty,oneof=INBOUND OUTBOUND"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING PROCESSING PACKED SHIPPED COMPLETED"`
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := orders.OrderFilter{
		Type:   orders.OrderType(req.Type),
		Status: orders.OrderStatus(req.Status),
	}
	list, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetPickList handles GET /orders/:id/pick-list
func (h *OrderHandler) GetPickList(c *gin.Context) {
	pickList, err := h.service.PickList(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pickList)
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ordersGroup := rg.Group("/orders")
	{
		ordersGroup.GET("", h.ListOrders)
		ordersGroup.GET("/:id", h.GetOrder)
		ordersGroup.GET("/:id/pick-list", h.GetPickList)
	}
}
