package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
)

// Seed loads the demo warehouse data when the database is empty. Item ids
// are fixed so the seed orders can reference their lines.
func Seed(ctx context.Context, db *Database, logger *zap.Logger) error {
	itemRepo := NewGormItemRepository(db.DB)

	count, err := itemRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("database already populated, skipping seed")
		return nil
	}

	now := time.Now()
	items := seedItems(now)
	for idx := range items {
		if err := itemRepo.Save(ctx, &items[idx]); err != nil {
			return err
		}
	}

	movementRepo := NewGormMovementRepository(db.DB)
	for _, movement := range seedMovements(now) {
		m := movement
		if err := movementRepo.Append(ctx, &m); err != nil {
			return err
		}
	}

	orderRepo := NewGormOrderRepository(db.DB)
	seedOrders, err := buildSeedOrders(now)
	if err != nil {
		return err
	}
	for _, order := range seedOrders {
		if err := orderRepo.Save(ctx, order); err != nil {
			return err
		}
	}

	logger.Info("seeded demo data",
		zap.Int("items", len(items)),
		zap.Int("orders", len(seedOrders)),
	)
	return nil
}

func seedItems(now time.Time) []inventory.Item {
	price := func(value string) *decimal.Decimal {
		d := decimal.RequireFromString(value)
		return &d
	}
	weight := func(value float64) *float64 { return &value }

	return []inventory.Item{
		{
			ID:            "1",
			SKU:           "TECH-001",
			Name:          "Wireless Ergonomic Mouse",
			Category:      "Electronics",
			Quantity:      45,
			MinStockLevel: 20,
			Location:      "A-12-01",
			LastUpdated:   now,
			Price:         price("59.99"),
			Description:   "High precision wireless mouse with 2 year battery life.",
			BatchNumber:   "B-2023-001",
			Weight:        weight(0.2),
		},
		{
			ID:            "2",
			SKU:           "FUR-105",
			Name:          "Mesh Office Chair",
			Category:      "Furniture",
			Quantity:      8,
			MinStockLevel: 10,
			Location:      "B-05-02",
			LastUpdated:   now,
			Price:         price("129.50"),
			Description:   "Breathable mesh back support office chair.",
			Dimensions:    "60x60x100 cm",
			Weight:        weight(12.5),
		},
		{
			ID:            "3",
			SKU:           "OFF-202",
			Name:          "A4 Printer Paper (500 sheets)",
			Category:      "Office Supplies",
			Quantity:      120,
			MinStockLevel: 50,
			Location:      "C-01-05",
			LastUpdated:   now,
			Price:         price("5.99"),
			Description:   "Premium bright white paper.",
			BatchNumber:   "P-9982",
			Weight:        weight(2.5),
		},
		{
			ID:            "4",
			SKU:           "TECH-009",
			Name:          "USB-C Docking Station",
			Category:      "Electronics",
			Quantity:      15,
			MinStockLevel: 15,
			Location:      "A-12-04",
			LastUpdated:   now,
			Price:         price("199.99"),
			Description:   "Dual 4K monitor support docking station.",
			SerialNumber:  "SN-99283-X",
			Weight:        weight(0.8),
		},
	}
}

func seedMovements(now time.Time) []inventory.Movement {
	return []inventory.Movement{
		{
			ID:        "m1",
			ItemID:    "1",
			Type:      inventory.MovementTypeIn,
			Quantity:  50,
			Timestamp: now.Add(-48 * time.Hour),
			Reason:    "Initial Restock",
		},
		{
			ID:        "m2",
			ItemID:    "2",
			Type:      inventory.MovementTypeOut,
			Quantity:  2,
			Timestamp: now.Add(-24 * time.Hour),
			Reason:    "Sales Order #1001",
		},
	}
}

func buildSeedOrders(now time.Time) ([]*orders.Order, error) {
	inbound, err := orders.NewOrder("PO-2024-001", orders.OrderTypeInbound, "Tech Supplies Inc.", now)
	if err != nil {
		return nil, err
	}
	if err := inbound.AddItem("1", "TECH-001", "Wireless Ergonomic Mouse", 20); err != nil {
		return nil, err
	}
	if err := inbound.AddItem("4", "TECH-009", "USB-C Docking Station", 5); err != nil {
		return nil, err
	}

	outbound, err := orders.NewOrder("SO-2024-101", orders.OrderTypeOutbound, "Acme Corp HQ", now)
	if err != nil {
		return nil, err
	}
	if err := outbound.AddItem("2", "FUR-105", "Mesh Office Chair", 2); err != nil {
		return nil, err
	}
	if err := outbound.AddItem("3", "OFF-202", "A4 Printer Paper", 10); err != nil {
		return nil, err
	}

	inProgress, err := orders.NewOrder("SO-2024-102", orders.OrderTypeOutbound, "Startup Hub", now.Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	if err := inProgress.AddItem("1", "TECH-001", "Wireless Ergonomic Mouse", 5); err != nil {
		return nil, err
	}
	inProgress.Status = orders.OrderStatusProcessing

	return []*orders.Order{inbound, outbound, inProgress}, nil
}
