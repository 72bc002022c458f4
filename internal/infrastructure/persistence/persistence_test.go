package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/application/fulfillment"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/domain/shared"
)

func setupDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func makeItem(t *testing.T, sku string, quantity, minStock int64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(inventory.ItemDraft{
		SKU:           sku,
		Name:          "Test " + sku,
		Quantity:      quantity,
		MinStockLevel: minStock,
		Location:      "A-01-01",
	})
	require.NoError(t, err)
	return item
}

func TestGormItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find by id", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		item := makeItem(t, "TECH-001", 45, 20)
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "TECH-001", found.SKU)
		assert.Equal(t, int64(45), found.Quantity)
	})

	t.Run("find by id returns not found", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save updates an existing item", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		item := makeItem(t, "TECH-001", 45, 20)
		require.NoError(t, repo.Save(ctx, item))

		item.ApplyDelta(5, "B-02-02")
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), found.Quantity)
		assert.Equal(t, "B-02-02", found.Location)
	})

	t.Run("find all orders by sku", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		require.NoError(t, repo.Save(ctx, makeItem(t, "OFF-202", 120, 50)))
		require.NoError(t, repo.Save(ctx, makeItem(t, "FUR-105", 8, 10)))

		items, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "FUR-105", items[0].SKU)
		assert.Equal(t, "OFF-202", items[1].SKU)
	})

	t.Run("find below minimum includes the boundary", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		require.NoError(t, repo.Save(ctx, makeItem(t, "FUR-105", 8, 10)))
		require.NoError(t, repo.Save(ctx, makeItem(t, "TECH-009", 15, 15)))
		require.NoError(t, repo.Save(ctx, makeItem(t, "TECH-001", 45, 20)))

		low, err := repo.FindBelowMinimum(ctx)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "FUR-105", low[0].SKU)
		assert.Equal(t, "TECH-009", low[1].SKU)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormItemRepository(db.DB)

		item := makeItem(t, "TECH-001", 45, 20)
		require.NoError(t, repo.Save(ctx, item))
		require.NoError(t, repo.Delete(ctx, item.ID))
		require.NoError(t, repo.Delete(ctx, item.ID))

		_, err := repo.FindByID(ctx, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()

	newOrder := func(t *testing.T, id string, orderType orders.OrderType) *orders.Order {
		t.Helper()
		order, err := orders.NewOrder(id, orderType, "Test Partner", time.Now())
		require.NoError(t, err)
		require.NoError(t, order.AddItem("item-1", "TECH-001", "Wireless Mouse", 20))
		return order
	}

	t.Run("save and reload with lines", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormOrderRepository(db.DB)

		order := newOrder(t, "PO-2024-001", orders.OrderTypeInbound)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, "PO-2024-001")
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "TECH-001", found.Items[0].SKU)
		assert.Equal(t, orders.OrderStatusPending, found.Status)
	})

	t.Run("save persists progress counters", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormOrderRepository(db.DB)

		order := newOrder(t, "PO-2024-001", orders.OrderTypeInbound)
		require.NoError(t, repo.Save(ctx, order))

		loaded, err := repo.FindByID(ctx, "PO-2024-001")
		require.NoError(t, err)
		require.True(t, loaded.ApplyReceivingProgress("item-1", 5))
		require.NoError(t, repo.Save(ctx, loaded))

		found, err := repo.FindByID(ctx, "PO-2024-001")
		require.NoError(t, err)
		assert.Equal(t, int64(5), found.Items[0].Received)
		assert.Equal(t, orders.OrderStatusProcessing, found.Status)
	})

	t.Run("find all honors type and status filters", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormOrderRepository(db.DB)

		require.NoError(t, repo.Save(ctx, newOrder(t, "PO-2024-001", orders.OrderTypeInbound)))
		require.NoError(t, repo.Save(ctx, newOrder(t, "SO-2024-101", orders.OrderTypeOutbound)))

		outbound, err := repo.FindAll(ctx, orders.OrderFilter{Type: orders.OrderTypeOutbound})
		require.NoError(t, err)
		require.Len(t, outbound, 1)
		assert.Equal(t, "SO-2024-101", outbound[0].ID)

		pending, err := repo.FindAll(ctx, orders.OrderFilter{Status: orders.OrderStatusPending})
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		count, err := repo.Count(ctx, orders.OrderFilter{Type: orders.OrderTypeInbound})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("find by id returns not found", func(t *testing.T) {
		db := setupDB(t)
		repo := NewGormOrderRepository(db.DB)

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMovementRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewGormMovementRepository(db.DB)

	older, err := inventory.NewMovement("item-1", inventory.MovementTypeIn, 50, "Initial Restock")
	require.NoError(t, err)
	older.Timestamp = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Append(ctx, older))

	newer, err := inventory.NewMovement("item-2", inventory.MovementTypeOut, 2, "Pick for order SO-2024-101")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, newer))

	recent, err := repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "item-2", recent[0].ItemID)

	byItem, err := repo.FindByItem(ctx, "item-1", 10)
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, inventory.MovementTypeIn, byItem[0].Type)
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits paired writes", func(t *testing.T) {
		db := setupDB(t)
		scope := NewGormTransactionScope(db.DB)

		item := makeItem(t, "TECH-001", 45, 20)
		order, err := orders.NewOrder("PO-2024-001", orders.OrderTypeInbound, "Tech Supplies Inc.", time.Now())
		require.NoError(t, err)
		require.NoError(t, order.AddItem(item.ID, item.SKU, item.Name, 20))

		err = scope.Execute(ctx, func(repos fulfillment.TransactionalRepositories) error {
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
			return repos.OrderRepo().Save(ctx, order)
		})
		require.NoError(t, err)

		_, err = NewGormItemRepository(db.DB).FindByID(ctx, item.ID)
		assert.NoError(t, err)
		_, err = NewGormOrderRepository(db.DB).FindByID(ctx, "PO-2024-001")
		assert.NoError(t, err)
	})

	t.Run("rolls back both writes on error", func(t *testing.T) {
		db := setupDB(t)
		scope := NewGormTransactionScope(db.DB)

		item := makeItem(t, "TECH-001", 45, 20)
		boom := errors.New("write conflict")

		err := scope.Execute(ctx, func(repos fulfillment.TransactionalRepositories) error {
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormItemRepository(db.DB).FindByID(ctx, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	require.NoError(t, Seed(ctx, db, zap.NewNop()))

	items, err := NewGormItemRepository(db.DB).FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	orderList, err := NewGormOrderRepository(db.DB).FindAll(ctx, orders.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orderList, 3)

	// Seed is idempotent: a populated database is left alone
	require.NoError(t, Seed(ctx, db, zap.NewNop()))
	items, err = NewGormItemRepository(db.DB).FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	movements, err := NewGormMovementRepository(db.DB).FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}
