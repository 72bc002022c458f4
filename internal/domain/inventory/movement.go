package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// MovementType distinguishes inbound and outbound stock movements
type MovementType string

const (
	MovementTypeIn  MovementType = "IN"
	MovementTypeOut MovementType = "OUT"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// Movement is an append-only record of a single stock change. Movements are
// a journal for display and reporting; the ledger quantity on the Item is
// authoritative.
type Movement struct {
	ID        string       `gorm:"primaryKey;size:64"`
	ItemID    string       `gorm:"size:64;not null;index"`
	Type      MovementType `gorm:"size:8;not null"`
	Quantity  int64        `gorm:"not null"`
	Timestamp time.Time    `gorm:"not null;index"`
	Reason    string       `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a movement record for the given item
func NewMovement(itemID string, movementType MovementType, quantity int64, reason string) (*Movement, error) {
	if itemID == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be IN or OUT")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}

	return &Movement{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Type:      movementType,
		Quantity:  quantity,
		Timestamp: time.Now(),
		Reason:    reason,
	}, nil
}
