package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/wms/backend/internal/application/fulfillment"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
)

// SystemHandler handles dashboard and health requests
type SystemHandler struct {
	BaseHandler
	inventoryService   *inventoryapp.InventoryService
	fulfillmentService *fulfillmentapp.FulfillmentService
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(inventoryService *inventoryapp.InventoryService, fulfillmentService *fulfillmentapp.FulfillmentService) *SystemHandler {
	return &SystemHandler{
		inventoryService:   inventoryService,
		fulfillmentService: fulfillmentService,
	}
}

// GetSummary handles GET /dashboard/summary
func (h *SystemHandler) GetSummary(c *gin.Context) {
	summary, err := h.inventoryService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// GetState handles GET /state, returning the complete inventory and order
// view in one payload for clients that render everything at once.
func (h *SystemHandler) GetState(c *gin.Context) {
	snapshot, err := h.fulfillmentService.Snapshot(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes registers dashboard and state routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/summary", h.GetSummary)
	rg.GET("/state", h.GetState)
	rg.GET("/health", h.Health)
}
