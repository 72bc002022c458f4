package handler

import (
	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/wms/backend/internal/application/fulfillment"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// FulfillmentHandler handles receiving, picking, packing and shipping
type FulfillmentHandler struct {
	BaseHandler
	service *fulfillmentapp.FulfillmentService
}

// NewFulfillmentHandler creates a new fulfillment handler
func NewFulfillmentHandler(service *fulfillmentapp.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// ReceiveRequest represents a receiving scan against an inbound order line
type ReceiveRequest struct {
	OrderID  string `json:"order_id" binding:"required" example:"PO-2024-001"`
	ItemID   string `json:"item_id" binding:"required" example:"1"`
	Quantity int64  `json:"quantity" binding:"required,gt=0" example:"10"`
	Location string `json:"location" example:"A-12-01"`
}

// PickRequest represents a picking scan against an outbound order line
type PickRequest struct {
	OrderID  string `json:"order_id" binding:"required" example:"SO-2024-101"`
	ItemID   string `json:"item_id" binding:"required" example:"2"`
	Quantity int64  `json:"quantity" binding:"required,gt=0" example:"2"`
}

// PackRequest represents a packing confirmation for an outbound order
type PackRequest struct {
	OrderID string `json:"order_id" binding:"required" example:"SO-2024-101"`
}

// ShipRequest represents a shipping confirmation for an outbound order
type ShipRequest struct {
	OrderID        string `json:"order_id" binding:"required" example:"SO-2024-101"`
	Carrier        string `json:"carrier" example:"FedEx"`
	TrackingNumber string `json:"tracking_number" example:"TRK-4F8A2C9B1"`
}

// Receive handles POST /fulfillment/receive
func (h *FulfillmentHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	snapshot, err := h.service.Receive(c.Request.Context(), fulfillmentapp.ReceiveRequest{
		OrderID:  req.OrderID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Pick handles POST /fulfillment/pick
func (h *FulfillmentHandler) Pick(c *gin.Context) {
	var req PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	snapshot, err := h.service.Pick(c.Request.Context(), fulfillmentapp.PickRequest{
		OrderID:  req.OrderID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Pack handles POST /fulfillment/pack
func (h *FulfillmentHandler) Pack(c *gin.Context) {
	var req PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	snapshot, err := h.service.Pack(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Ship handles POST /fulfillment/ship
func (h *FulfillmentHandler) Ship(c *gin.Context) {
	var req ShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	snapshot, err := h.service.Ship(c.Request.Context(), fulfillmentapp.ShipRequest{
		OrderID:        req.OrderID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// RegisterRoutes registers all fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fulfillment := rg.Group("/fulfillment")
	{
		fulfillment.POST("/receive", h.Receive)
		fulfillment.POST("/pick", h.Pick)
		fulfillment.POST("/pack", h.Pack)
		fulfillment.POST("/ship", h.Ship)
	}
}
