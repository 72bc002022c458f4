package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an inventory item by its id
func (r *GormItemRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll returns all items ordered by SKU
func (r *GormItemRepository) FindAll(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := r.db.WithContext(ctx).Order("sku asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum returns items at or below their minimum stock level
func (r *GormItemRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := r.db.WithContext(ctx).
		Where("quantity <= min_stock_level").
		Order("sku asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an item (last-writer-wins)
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes an item by id; deleting an absent id is not an error
func (r *GormItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&inventory.Item{}, "id = ?", id).Error
}

// Count returns the number of items
func (r *GormItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
