package inventory

import "context"

// ItemRepository defines the persistence interface for inventory items
type ItemRepository interface {
	// FindByID finds an item by its id, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id string) (*Item, error)
	// FindAll returns all items ordered by SKU
	FindAll(ctx context.Context) ([]Item, error)
	// FindBelowMinimum returns items at or below their minimum stock level
	FindBelowMinimum(ctx context.Context) ([]Item, error)
	// Save creates or updates an item (last-writer-wins)
	Save(ctx context.Context, item *Item) error
	// Delete removes an item by id; deleting an absent id is not an error
	Delete(ctx context.Context, id string) error
	// Count returns the number of items
	Count(ctx context.Context) (int64, error)
}

// MovementRepository defines the persistence interface for the stock
// movement journal
type MovementRepository interface {
	// Append stores a new movement record
	Append(ctx context.Context, movement *Movement) error
	// FindRecent returns the most recent movements, newest first
	FindRecent(ctx context.Context, limit int) ([]Movement, error)
	// FindByItem returns movements for a single item, newest first
	FindByItem(ctx context.Context, itemID string, limit int) ([]Movement, error)
}
