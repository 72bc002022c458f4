package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	advisoryapp "github.com/wms/backend/internal/application/advisory"
	"github.com/wms/backend/internal/interfaces/http/dto"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// AdvisoryHandler handles assistant-backed suggestion requests
type AdvisoryHandler struct {
	BaseHandler
	service *advisoryapp.AdvisoryService
}

// NewAdvisoryHandler creates a new advisory handler
func NewAdvisoryHandler(service *advisoryapp.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{service: service}
}

// ChatRequest represents a free-form warehouse question
type ChatRequest struct {
	Message string `json:"message" binding:"required" example:"Which items are running low?"`
}

// IdentifyRequest carries a base64-encoded product photo
type IdentifyRequest struct {
	ImageData string `json:"image_data" binding:"required"`
	MimeType  string `json:"mime_type" example:"image/jpeg"`
}

// PutawayRequest asks for a storage bin suggestion for an item
type PutawayRequest struct {
	ItemID string `json:"item_id" binding:"required" example:"1"`
}

// PackagingRequest asks for a carton suggestion for an order
type PackagingRequest struct {
	OrderID string `json:"order_id" binding:"required" example:"SO-2024-101"`
}

// GetInsights handles GET /advisory/insights
func (h *AdvisoryHandler) GetInsights(c *gin.Context) {
	h.Success(c, h.service.Insights())
}

// Chat handles POST /advisory/chat
func (h *AdvisoryHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	reply := h.service.Chat(c.Request.Context(), req.Message)
	h.Success(c, gin.H{"reply": reply})
}

// Identify handles POST /advisory/identify
func (h *AdvisoryHandler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	draft, err := h.service.IdentifyProduct(c.Request.Context(), req.ImageData, req.MimeType)
	if err != nil {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, "Product identification is unavailable")
		return
	}
	h.Success(c, draft)
}

// SuggestPutaway handles POST /advisory/putaway
func (h *AdvisoryHandler) SuggestPutaway(c *gin.Context) {
	var req PutawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	location := h.service.SuggestPutaway(c.Request.Context(), req.ItemID)
	h.Success(c, gin.H{"location": location})
}

// SuggestPackaging handles POST /advisory/packaging
func (h *AdvisoryHandler) SuggestPackaging(c *gin.Context) {
	var req PackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	packaging := h.service.SuggestPackaging(c.Request.Context(), req.OrderID)
	h.Success(c, gin.H{"packaging": packaging})
}

// RegisterRoutes registers all advisory routes
func (h *AdvisoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advisory := rg.Group("/advisory")
	{
		advisory.GET("/insights", h.GetInsights)
		advisory.POST("/chat", h.Chat)
		advisory.POST("/identify", h.Identify)
		advisory.POST("/putaway", h.SuggestPutaway)
		advisory.POST("/packaging", h.SuggestPackaging)
	}
}
