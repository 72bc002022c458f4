package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// OrderType distinguishes receiving orders from fulfillment orders
type OrderType string

const (
	OrderTypeInbound  OrderType = "INBOUND"
	OrderTypeOutbound OrderType = "OUTBOUND"
)

// IsValid checks if the order type is valid
func (t OrderType) IsValid() bool {
	return t == OrderTypeInbound || t == OrderTypeOutbound
}

// OrderStatus represents the lifecycle stage of an order. Both order types
// share the field: inbound orders end at COMPLETED, outbound orders move
// PENDING -> PROCESSING -> PACKED -> SHIPPED.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusPacked     OrderStatus = "PACKED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPacked, OrderStatusShipped, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a line on an order. SKU and name are denormalized at order
// creation time and never re-synced; ItemID is a lookup-only reference into
// the inventory ledger and the referenced item may no longer exist.
type OrderItem struct {
	ID       string `gorm:"primaryKey;size:64"`
	OrderID  string `gorm:"size:64;not null;index"`
	ItemID   string `gorm:"size:64;not null"`
	SKU      string `gorm:"size:64;not null"`
	Name     string `gorm:"size:255;not null"`
	Quantity int64  `gorm:"not null"`
	Received int64  `gorm:"not null;default:0"`
	Picked   int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a line for the given inventory item reference
func NewOrderItem(orderID, itemID, sku, name string, quantity int64) (*OrderItem, error) {
	if itemID == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	return &OrderItem{
		ID:       uuid.NewString(),
		OrderID:  orderID,
		ItemID:   itemID,
		SKU:      sku,
		Name:     name,
		Quantity: quantity,
	}, nil
}

// Order is the aggregate root for inbound and outbound orders. Status is
// derived from line progress except for the externally triggered PACKED and
// SHIPPED transitions.
type Order struct {
	shared.BaseAggregateRoot
	ID             string      `gorm:"primaryKey;size:64"`
	Type           OrderType   `gorm:"size:16;not null;index"`
	Status         OrderStatus `gorm:"size:16;not null;index"`
	PartnerName    string      `gorm:"size:255;not null"`
	Date           time.Time   `gorm:"not null"`
	Carrier        string      `gorm:"size:64"`
	TrackingNumber string      `gorm:"size:64"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order with the given business-assigned id
func NewOrder(id string, orderType OrderType, partnerName string, date time.Time) (*Order, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Order type must be INBOUND or OUTBOUND")
	}
	if partnerName == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner name cannot be empty")
	}
	now := time.Now()
	return &Order{
		ID:          id,
		Type:        orderType,
		Status:      OrderStatusPending,
		PartnerName: partnerName,
		Date:        date,
		Items:       make([]OrderItem, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddItem appends a line to the order
func (o *Order) AddItem(itemID, sku, name string, quantity int64) error {
	line, err := NewOrderItem(o.ID, itemID, sku, name, quantity)
	if err != nil {
		return err
	}
	o.Items = append(o.Items, *line)
	o.UpdatedAt = time.Now()
	return nil
}

// findLine returns the index of the line referencing itemID, or -1
func (o *Order) findLine(itemID string) int {
	for idx := range o.Items {
		if o.Items[idx].ItemID == itemID {
			return idx
		}
	}
	return -1
}

// ApplyReceivingProgress adds qty to the received count of the matching line
// and re-derives the order status: COMPLETED once every line has received at
// least its requested quantity, PROCESSING otherwise. The addition is
// deliberately unclamped; receiving more than ordered keeps accumulating
// (over-receipt is tracked, not rejected). Returns false when no line
// references itemID, leaving the order untouched.
func (o *Order) ApplyReceivingProgress(itemID string, qty int64) bool {
	idx := o.findLine(itemID)
	if idx < 0 {
		return false
	}
	o.Items[idx].Received += qty

	if o.allLinesReceived() {
		o.Status = OrderStatusCompleted
	} else {
		o.Status = OrderStatusProcessing
	}
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderProgressEvent(o, itemID, qty, EventTypeOrderReceivingProgressed))
	return true
}

// ApplyPickingProgress adds qty to the picked count of the matching line and
// re-derives the status: PROCESSING once every line is fully picked, PENDING
// otherwise. Dropping a partially picked order back to PENDING is the
// original "not yet fully picked" signal and is kept as-is. Returns false
// when no line references itemID.
func (o *Order) ApplyPickingProgress(itemID string, qty int64) bool {
	idx := o.findLine(itemID)
	if idx < 0 {
		return false
	}
	o.Items[idx].Picked += qty

	if o.allLinesPicked() {
		o.Status = OrderStatusProcessing
	} else {
		o.Status = OrderStatusPending
	}
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderProgressEvent(o, itemID, qty, EventTypeOrderPickingProgressed))
	return true
}

// MarkPacked records the manual packing-complete step. The transition is an
// external trigger accepted verbatim; there is no precondition on current
// status or pick progress.
func (o *Order) MarkPacked() {
	o.Status = OrderStatusPacked
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPackedEvent(o))
}

// MarkShipped unconditionally moves the order to SHIPPED and stamps carrier
// and tracking number. No check that all lines were picked: shipment is
// permissive by design and callers own that decision.
func (o *Order) MarkShipped(carrier, trackingNumber string) {
	o.Status = OrderStatusShipped
	o.Carrier = carrier
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderShippedEvent(o))
}

// allLinesReceived reports whether every line has received >= quantity
func (o *Order) allLinesReceived() bool {
	for idx := range o.Items {
		if o.Items[idx].Received < o.Items[idx].Quantity {
			return false
		}
	}
	return true
}

// allLinesPicked reports whether every line has picked >= quantity
func (o *Order) allLinesPicked() bool {
	for idx := range o.Items {
		if o.Items[idx].Picked < o.Items[idx].Quantity {
			return false
		}
	}
	return true
}
