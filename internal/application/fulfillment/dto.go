package fulfillment

import (
	"time"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/orders"
)

// ReceiveRequest describes a receiving intent against an inbound order line
type ReceiveRequest struct {
	OrderID  string
	ItemID   string
	Quantity int64
	Location string
}

// PickRequest describes a picking intent against an outbound order line
type PickRequest struct {
	OrderID  string
	ItemID   string
	Quantity int64
}

// ShipRequest describes a shipment intent. An empty TrackingNumber is filled
// with a generated one.
type ShipRequest struct {
	OrderID        string
	Carrier        string
	TrackingNumber string
}

// OrderLineResponse represents an order line in service responses
type OrderLineResponse struct {
	ItemID   string `json:"item_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Received int64  `json:"received"`
	Picked   int64  `json:"picked"`
}

// OrderResponse represents an order in service responses
type OrderResponse struct {
	ID             string              `json:"id"`
	Type           string              `json:"type"`
	Status         string              `json:"status"`
	PartnerName    string              `json:"partner_name"`
	Date           time.Time           `json:"date"`
	Carrier        string              `json:"carrier,omitempty"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Items          []OrderLineResponse `json:"items"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *orders.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Items))
	for idx := range order.Items {
		line := &order.Items[idx]
		lines = append(lines, OrderLineResponse{
			ItemID:   line.ItemID,
			SKU:      line.SKU,
			Name:     line.Name,
			Quantity: line.Quantity,
			Received: line.Received,
			Picked:   line.Picked,
		})
	}
	return OrderResponse{
		ID:             order.ID,
		Type:           string(order.Type),
		Status:         string(order.Status),
		PartnerName:    order.PartnerName,
		Date:           order.Date,
		Carrier:        order.Carrier,
		TrackingNumber: order.TrackingNumber,
		Items:          lines,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(list []orders.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(list))
	for idx := range list {
		responses = append(responses, ToOrderResponse(&list[idx]))
	}
	return responses
}

// SnapshotResponse is the full state returned after every mutation. The
// persistence collaborator treats it as authoritative, last writer wins.
type SnapshotResponse struct {
	Inventory []inventoryapp.ItemResponse `json:"inventory"`
	Orders    []OrderResponse             `json:"orders"`
}

// PickListLine is an outbound line joined with its current ledger location
type PickListLine struct {
	ItemID   string `json:"item_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Picked   int64  `json:"picked"`
	Location string `json:"location"`
}

// PickListResponse is the location-sorted pick path for one order
type PickListResponse struct {
	OrderID string         `json:"order_id"`
	Lines   []PickListLine `json:"lines"`
}
