package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// DefaultMovementLimit bounds movement listings when the caller does not
// supply a limit
const DefaultMovementLimit = 50

// InventoryService handles inventory ledger operations
type InventoryService struct {
	itemRepo       inventory.ItemRepository
	movementRepo   inventory.MovementRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(itemRepo inventory.ItemRepository, movementRepo inventory.MovementRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events from the item and clears them.
// Publish failures are logged by the bus and never propagated.
func (s *InventoryService) publishDomainEvents(ctx context.Context, item *inventory.Item) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// List returns all items in the ledger
func (s *InventoryService) List(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Get returns a single item by id
func (s *InventoryService) Get(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Create adds a new item to the ledger. SKU duplicates are accepted.
func (s *InventoryService) Create(ctx context.Context, draft inventory.ItemDraft) (*ItemResponse, error) {
	item, err := inventory.NewItem(draft)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("inventory item created",
		zap.String("item_id", item.ID),
		zap.String("sku", item.SKU),
	)
	resp := ToItemResponse(item)
	return &resp, nil
}

// Update merges a partial set of fields into an existing item
func (s *InventoryService) Update(ctx context.Context, id string, patch inventory.ItemPatch) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.ApplyPatch(patch); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item from the ledger. Orders referencing the item keep
// their denormalized snapshots; there is no cascade.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.itemRepo.Delete(ctx, id)
}

// CycleCount overwrites the on-hand quantity with a counted value and
// records the correction in the movement journal.
func (s *InventoryService) CycleCount(ctx context.Context, id string, counted int64) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := item.Quantity
	if err := item.SetQuantity(counted); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	if delta := counted - previous; delta != 0 {
		movementType := inventory.MovementTypeIn
		magnitude := delta
		if delta < 0 {
			movementType = inventory.MovementTypeOut
			magnitude = -delta
		}
		movement, err := inventory.NewMovement(item.ID, movementType, magnitude, "Cycle count adjustment")
		if err == nil {
			if err := s.movementRepo.Append(ctx, movement); err != nil {
				s.logger.Warn("failed to record cycle count movement",
					zap.String("item_id", item.ID),
					zap.Error(err),
				)
			}
		}
	}

	s.publishDomainEvents(ctx, item)
	resp := ToItemResponse(item)
	return &resp, nil
}

// LowStock returns items at or below their minimum stock level
func (s *InventoryService) LowStock(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Movements returns the most recent stock movements
func (s *InventoryService) Movements(ctx context.Context, limit int) ([]MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	movements, err := s.movementRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, 0, len(movements))
	for idx := range movements {
		responses = append(responses, ToMovementResponse(&movements[idx]))
	}
	return responses, nil
}

// Summary aggregates ledger totals for the dashboard
func (s *InventoryService) Summary(ctx context.Context) (*SummaryResponse, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SummaryResponse{
		TotalItems:    int64(len(items)),
		LowStockItems: make([]ItemResponse, 0),
	}
	totalValue := decimal.Zero
	for idx := range items {
		item := &items[idx]
		summary.TotalUnits += item.Quantity
		totalValue = totalValue.Add(item.StockValue())
		if item.IsBelowMinimum() {
			summary.LowStockItems = append(summary.LowStockItems, ToItemResponse(item))
		}
	}
	summary.LowStockCount = len(summary.LowStockItems)
	summary.TotalStockValue = totalValue.StringFixed(2)
	return summary, nil
}
