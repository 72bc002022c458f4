package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles inventory item requests
type InventoryHandler struct {
	BaseHandler
	service *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// CreateItemRequest represents the request to create an inventory item
type CreateItemRequest struct {
	SKU            string   `json:"sku" binding:"required" example:"TECH-001"`
	Name           string   `json:"name" binding:"required" example:"Wireless Mouse"`
	Category       string   `json:"category" example:"Electronics"`
	Quantity       int64    `json:"quantity" binding:"gte=0" example:"45"`
	MinStockLevel  int64    `json:"min_stock_level" binding:"gte=0" example:"20"`
	Location       string   `json:"location" example:"A-12-01"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0" example:"59.99"`
	Description    string   `json:"description"`
	BatchNumber    string   `json:"batch_number"`
	SerialNumber   string   `json:"serial_number"`
	ExpirationDate *string  `json:"expiration_date" example:"2027-01-31T00:00:00Z"`
	Dimensions     string   `json:"dimensions"`
	Weight         *float64 `json:"weight" binding:"omitempty,gte=0"`
}

// UpdateItemRequest represents the request to update an inventory item.
// Absent fields leave the current value untouched.
type UpdateItemRequest struct {
	SKU            *string  `json:"sku"`
	Name           *string  `json:"name"`
	Category       *string  `json:"category"`
	Quantity       *int64   `json:"quantity" binding:"omitempty,gte=0"`
	MinStockLevel  *int64   `json:"min_stock_level" binding:"omitempty,gte=0"`
	Location       *string  `json:"location"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0"`
	Description    *string  `json:"description"`
	BatchNumber    *string  `json:"batch_number"`
	SerialNumber   *string  `json:"serial_number"`
	ExpirationDate *string  `json:"expiration_date"`
	Dimensions     *string  `json:"dimensions"`
	Weight         *float64 `json:"weight" binding:"omitempty,gte=0"`
}

// CycleCountRequest represents a physical count correction
type CycleCountRequest struct {
	Counted *int64 `json:"counted" binding:"required,gte=0" example:"42"`
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem handles GET /inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateItem handles POST /inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	draft := inventory.ItemDraft{
		SKU:           req.SKU,
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Location:      req.Location,
		Description:   req.Description,
		BatchNumber:   req.BatchNumber,
		SerialNumber:  req.SerialNumber,
		Dimensions:    req.Dimensions,
		Weight:        req.Weight,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		draft.Price = &price
	}
	if req.ExpirationDate != nil {
		expires, err := time.Parse(time.RFC3339, *req.ExpirationDate)
		if err != nil {
			h.BadRequest(c, "expiration_date must be RFC 3339 formatted")
			return
		}
		draft.ExpirationDate = &expires
	}

	item, err := h.service.Create(c.Request.Context(), draft)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem handles PUT /inventory/items/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	patch := inventory.ItemPatch{
		SKU:           req.SKU,
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Location:      req.Location,
		Description:   req.Description,
		BatchNumber:   req.BatchNumber,
		SerialNumber:  req.SerialNumber,
		Dimensions:    req.Dimensions,
		Weight:        req.Weight,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}
	if req.ExpirationDate != nil {
		expires, err := time.Parse(time.RFC3339, *req.ExpirationDate)
		if err != nil {
			h.BadRequest(c, "expiration_date must be RFC 3339 formatted")
			return
		}
		patch.ExpirationDate = &expires
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem handles DELETE /inventory/items/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CycleCountItem handles POST /inventory/items/:id/cycle-count
func (h *InventoryHandler) CycleCountItem(c *gin.Context) {
	var req CycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := h.service.CycleCount(c.Request.Context(), c.Param("id"), *req.Counted)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListLowStock handles GET /inventory/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListMovements handles GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	limit := inventoryapp.DefaultMovementLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	movements, err := h.service.Movements(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/items", h.ListItems)
		inv.POST("/items", h.CreateItem)
		inv.GET("/items/:id", h.GetItem)
		inv.PUT("/items/:id", h.UpdateItem)
		inv.DELETE("/items/:id", h.DeleteItem)
		inv.POST("/items/:id/cycle-count", h.CycleCountItem)
		inv.GET("/low-stock", h.ListLowStock)
		inv.GET("/movements", h.ListMovements)
	}
}
