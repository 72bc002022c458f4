package inventory

import (
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeStockBelowMinimum = "StockBelowMinimum"
)

// StockAdjustedEvent is raised whenever the on-hand quantity changes
// (receiving, picking, cycle count).
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID      string `json:"item_id"`
	SKU         string `json:"sku"`
	Delta       int64  `json:"delta"`
	NewQuantity int64  `json:"new_quantity"`
	Location    string `json:"location"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *Item, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Delta:           delta,
		NewQuantity:     item.Quantity,
		Location:        item.Location,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockBelowMinimumEvent is raised when an adjustment leaves the item at or
// below its minimum stock level.
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ItemID        string `json:"item_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Quantity      int64  `json:"quantity"`
	MinStockLevel int64  `json:"min_stock_level"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(item *Item) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		SKU:             item.SKU,
		Name:            item.Name,
		Quantity:        item.Quantity,
		MinStockLevel:   item.MinStockLevel,
	}
}

// EventType returns the event type name
func (e *StockBelowMinimumEvent) EventType() string {
	return EventTypeStockBelowMinimum
}
