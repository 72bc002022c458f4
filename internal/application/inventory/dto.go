package inventory

import (
	"time"

	"github.com/wms/backend/internal/domain/inventory"
)

// ItemResponse represents an inventory item in service responses
type ItemResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Quantity       int64     `json:"quantity"`
	MinStockLevel  int64     `json:"min_stock_level"`
	Location       string    `json:"location"`
	LastUpdated    time.Time `json:"last_updated"`
	LowStock       bool      `json:"low_stock"`
	Price          *float64  `json:"price,omitempty"`
	Description    string    `json:"description,omitempty"`
	BatchNumber    string    `json:"batch_number,omitempty"`
	SerialNumber   string    `json:"serial_number,omitempty"`
	ExpirationDate *string   `json:"expiration_date,omitempty"`
	Dimensions     string    `json:"dimensions,omitempty"`
	Weight         *float64  `json:"weight,omitempty"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(item *inventory.Item) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		Quantity:      item.Quantity,
		MinStockLevel: item.MinStockLevel,
		Location:      item.Location,
		LastUpdated:   item.LastUpdated,
		LowStock:      item.IsBelowMinimum(),
		Description:   item.Description,
		BatchNumber:   item.BatchNumber,
		SerialNumber:  item.SerialNumber,
		Dimensions:    item.Dimensions,
		Weight:        item.Weight,
	}
	if item.Price != nil {
		price, _ := item.Price.Float64()
		resp.Price = &price
	}
	if item.ExpirationDate != nil {
		formatted := item.ExpirationDate.Format(time.RFC3339)
		resp.ExpirationDate = &formatted
	}
	return resp
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToItemResponse(&items[idx]))
	}
	return responses
}

// MovementResponse represents a stock movement in service responses
type MovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Timestamp: m.Timestamp,
		Reason:    m.Reason,
	}
}

// SummaryResponse aggregates the dashboard view of the ledger
type SummaryResponse struct {
	TotalItems      int64          `json:"total_items"`
	TotalUnits      int64          `json:"total_units"`
	TotalStockValue string         `json:"total_stock_value"`
	LowStockCount   int            `json:"low_stock_count"`
	LowStockItems   []ItemResponse `json:"low_stock_items"`
}
