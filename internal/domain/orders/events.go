package orders

import (
	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderReceivingProgressed = "OrderReceivingProgressed"
	EventTypeOrderPickingProgressed   = "OrderPickingProgressed"
	EventTypeOrderPacked              = "OrderPacked"
	EventTypeOrderShipped             = "OrderShipped"
)

// OrderProgressEvent is raised when receiving or picking progress is applied
// to a line.
type OrderProgressEvent struct {
	shared.BaseDomainEvent
	OrderID   string      `json:"order_id"`
	OrderType OrderType   `json:"order_type"`
	ItemID    string      `json:"item_id"`
	Quantity  int64       `json:"quantity"`
	Status    OrderStatus `json:"status"`
}

// NewOrderProgressEvent creates a progress event of the given type
func NewOrderProgressEvent(order *Order, itemID string, qty int64, eventType string) *OrderProgressEvent {
	return &OrderProgressEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderType:       order.Type,
		ItemID:          itemID,
		Quantity:        qty,
		Status:          order.Status,
	}
}

// OrderPackedEvent is raised when an order is marked packed
type OrderPackedEvent struct {
	shared.BaseDomainEvent
	OrderID string `json:"order_id"`
}

// NewOrderPackedEvent creates a new OrderPackedEvent
func NewOrderPackedEvent(order *Order) *OrderPackedEvent {
	return &OrderPackedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPacked, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *OrderPackedEvent) EventType() string {
	return EventTypeOrderPacked
}

// OrderShippedEvent is raised when an order is marked shipped
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        string `json:"order_id"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Carrier:         order.Carrier,
		TrackingNumber:  order.TrackingNumber,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}
