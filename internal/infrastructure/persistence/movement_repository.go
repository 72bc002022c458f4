package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
)

// GormMovementRepository implements MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append stores a new movement record
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindRecent returns the most recent movements, newest first
func (r *GormMovementRepository) FindRecent(ctx context.Context, limit int) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByItem returns movements for a single item, newest first
func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID string, limit int) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("timestamp desc").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
