package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Item represents a stocked SKU at a storage location. It is the aggregate
// root for all on-hand quantity changes.
//
// The id is opaque and immutable after creation. SKU is the business key but
// is deliberately not enforced unique: the ledger accepts duplicate SKUs the
// way the original console did, and deduplication is left to an intake
// process outside this core.
type Item struct {
	shared.BaseAggregateRoot
	ID            string    `gorm:"primaryKey;size:64"`
	SKU           string    `gorm:"size:64;not null;index"`
	Name          string    `gorm:"size:255;not null"`
	Category      string    `gorm:"size:64"`
	Quantity      int64     `gorm:"not null;default:0"`
	MinStockLevel int64     `gorm:"not null;default:0"`
	Location      string    `gorm:"size:32"`
	LastUpdated   time.Time `gorm:"not null"`

	Price          *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Description    string           `gorm:"type:text"`
	BatchNumber    string           `gorm:"size:64"`
	SerialNumber   string           `gorm:"size:64"`
	ExpirationDate *time.Time
	Dimensions     string `gorm:"size:64"`
	Weight         *float64
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_items"
}

// ItemDraft holds the caller-supplied fields for a new item. Identity and
// timestamps are assigned by NewItem.
type ItemDraft struct {
	SKU            string
	Name           string
	Category       string
	Quantity       int64
	MinStockLevel  int64
	Location       string
	Price          *decimal.Decimal
	Description    string
	BatchNumber    string
	SerialNumber   string
	ExpirationDate *time.Time
	Dimensions     string
	Weight         *float64
}

// ItemPatch holds an arbitrary subset of mutable item fields. Nil pointers
// leave the current value untouched.
type ItemPatch struct {
	SKU            *string
	Name           *string
	Category       *string
	Quantity       *int64
	MinStockLevel  *int64
	Location       *string
	Price          *decimal.Decimal
	Description    *string
	BatchNumber    *string
	SerialNumber   *string
	ExpirationDate *time.Time
	Dimensions     *string
	Weight         *float64
}

// NewItem creates a new inventory item with a fresh id and timestamp
func NewItem(draft ItemDraft) (*Item, error) {
	if draft.SKU == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if draft.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if draft.Quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if draft.MinStockLevel < 0 {
		return nil, shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}

	return &Item{
		ID:             uuid.NewString(),
		SKU:            draft.SKU,
		Name:           draft.Name,
		Category:       draft.Category,
		Quantity:       draft.Quantity,
		MinStockLevel:  draft.MinStockLevel,
		Location:       draft.Location,
		LastUpdated:    time.Now(),
		Price:          draft.Price,
		Description:    draft.Description,
		BatchNumber:    draft.BatchNumber,
		SerialNumber:   draft.SerialNumber,
		ExpirationDate: draft.ExpirationDate,
		Dimensions:     draft.Dimensions,
		Weight:         draft.Weight,
	}, nil
}

// ApplyPatch merges the given subset of fields into the item
func (i *Item) ApplyPatch(patch ItemPatch) error {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if patch.MinStockLevel != nil && *patch.MinStockLevel < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}

	if patch.SKU != nil {
		i.SKU = *patch.SKU
	}
	if patch.Name != nil {
		i.Name = *patch.Name
	}
	if patch.Category != nil {
		i.Category = *patch.Category
	}
	if patch.Quantity != nil {
		i.Quantity = *patch.Quantity
	}
	if patch.MinStockLevel != nil {
		i.MinStockLevel = *patch.MinStockLevel
	}
	if patch.Location != nil {
		i.Location = *patch.Location
	}
	if patch.Price != nil {
		i.Price = patch.Price
	}
	if patch.Description != nil {
		i.Description = *patch.Description
	}
	if patch.BatchNumber != nil {
		i.BatchNumber = *patch.BatchNumber
	}
	if patch.SerialNumber != nil {
		i.SerialNumber = *patch.SerialNumber
	}
	if patch.ExpirationDate != nil {
		i.ExpirationDate = patch.ExpirationDate
	}
	if patch.Dimensions != nil {
		i.Dimensions = *patch.Dimensions
	}
	if patch.Weight != nil {
		i.Weight = patch.Weight
	}

	i.LastUpdated = time.Now()
	return nil
}

// ApplyDelta adjusts the on-hand quantity by delta, clamped at a floor of
// zero. A non-empty locationOverride reassigns the storage location (putaway
// after receiving). The quantity invariant holds for any delta: over-picking
// drives stock to exactly zero, never negative.
func (i *Item) ApplyDelta(delta int64, locationOverride string) {
	newQuantity := i.Quantity + delta
	if newQuantity < 0 {
		newQuantity = 0
	}
	i.Quantity = newQuantity
	if locationOverride != "" {
		i.Location = locationOverride
	}
	i.LastUpdated = time.Now()

	i.AddDomainEvent(NewStockAdjustedEvent(i, delta))
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}
}

// SetQuantity overwrites the on-hand quantity with a counted value
// (cycle count).
func (i *Item) SetQuantity(counted int64) error {
	if counted < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	delta := counted - i.Quantity
	i.Quantity = counted
	i.LastUpdated = time.Now()

	i.AddDomainEvent(NewStockAdjustedEvent(i, delta))
	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}
	return nil
}

// IsBelowMinimum reports whether the item is at or below its minimum stock
// level. The low-stock signal is derived on read and never stored.
func (i *Item) IsBelowMinimum() bool {
	return i.Quantity <= i.MinStockLevel
}

// StockValue returns quantity * price, or zero when the item has no price
func (i *Item) StockValue() decimal.Decimal {
	if i.Price == nil {
		return decimal.Zero
	}
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
