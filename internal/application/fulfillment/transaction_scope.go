package fulfillment

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
)

// TransactionScope provides transactional access to the order and inventory
// repositories. A receive or pick is a paired write to two aggregates; when
// executed within a scope both writes commit or roll back together, so the
// order store and the ledger never observably diverge.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories sharing the
// current transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the transaction
	ItemRepo() inventory.ItemRepository
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() orders.OrderRepository
	// MovementRepo returns the movement journal repository scoped to the transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests and wherever transactional guarantees are supplied elsewhere.
type NoOpTransactionScope struct {
	itemRepo     inventory.ItemRepository
	orderRepo    orders.OrderRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	itemRepo inventory.ItemRepository,
	orderRepo orders.OrderRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:     itemRepo,
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() orders.OrderRepository {
	return s.orderRepo
}

// MovementRepo returns the movement journal repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
