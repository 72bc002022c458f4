package orders

import "context"

// OrderFilter narrows order listings; zero values match everything
type OrderFilter struct {
	Type   OrderType
	Status OrderStatus
}

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	// FindByID finds an order with its lines, returning shared.ErrNotFound
	// when absent
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindAll returns orders matching the filter, newest first
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)
	// Save creates or updates an order together with its lines
	Save(ctx context.Context, order *Order) error
	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}
