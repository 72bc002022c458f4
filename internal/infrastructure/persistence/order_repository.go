package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/domain/shared"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines by id
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*orders.Order, error) {
	var order orders.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter orders.OrderFilter) ([]orders.Order, error) {
	var list []orders.Order
	if err := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Items").
		Order("date desc, id desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates an order together with its lines. Line rows are
// replaced wholesale so that progress counters written on the aggregate
// always win.
func (r *GormOrderRepository) Save(ctx context.Context, order *orders.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		if err := tx.Delete(&orders.OrderItem{}, "order_id = ?", order.ID).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

// Count returns the number of orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter orders.OrderFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx), filter).
		Model(&orders.Order{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter orders.OrderFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

var _ orders.OrderRepository = (*GormOrderRepository)(nil)
