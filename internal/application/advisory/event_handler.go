package advisory

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/domain/shared"
)

// InsightRefreshHandler refreshes the advisory insight cache whenever stock
// levels or order states change. It is subscribed to the in-memory event
// bus, which dispatches handlers off the mutating request's critical path.
type InsightRefreshHandler struct {
	service *AdvisoryService
}

// NewInsightRefreshHandler creates a new InsightRefreshHandler
func NewInsightRefreshHandler(service *AdvisoryService) *InsightRefreshHandler {
	return &InsightRefreshHandler{service: service}
}

// Handle refreshes the insight cache. Failures are absorbed inside
// RefreshInsights; the previous cache stays in place.
func (h *InsightRefreshHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.service.RefreshInsights(ctx)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *InsightRefreshHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockAdjusted,
		inventory.EventTypeStockBelowMinimum,
		orders.EventTypeOrderShipped,
	}
}

var _ shared.EventHandler = (*InsightRefreshHandler)(nil)
