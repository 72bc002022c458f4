package fulfillment

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/domain/shared"
)

// UnknownLocation is reported on pick lists when the referenced ledger item
// no longer exists
const UnknownLocation = "UNKNOWN"

// FulfillmentService is the only entry point that performs paired updates to
// the order store and the inventory ledger. Each receive or pick applies the
// same caller-supplied quantity to both aggregates inside one transaction.
type FulfillmentService struct {
	scope          TransactionScope
	itemRepo       inventory.ItemRepository
	orderRepo      orders.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	// clampProgress caps receiving/picking progress at the line's requested
	// quantity. Off by default: the console historically tracked over-receipt
	// and over-pick as accumulated slack.
	clampProgress bool
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	scope TransactionScope,
	itemRepo inventory.ItemRepository,
	orderRepo orders.OrderRepository,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		scope:     scope,
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClampProgress enables or disables capping progress at the requested
// line quantity
func (s *FulfillmentService) SetClampProgress(clamp bool) {
	s.clampProgress = clamp
}

// Receive applies receiving progress to the order and increments the ledger
// in one transaction. A missing order line leaves the order untouched; a
// missing ledger item leaves the ledger untouched while order progress still
// advances (the receipt is recorded against the order even though no stock
// row exists to credit - a known gap, logged at warn level).
func (s *FulfillmentService) Receive(ctx context.Context, req ReceiveRequest) (*SnapshotResponse, error) {
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		qty := req.Quantity

		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Debug("receive for unknown order", zap.String("order_id", req.OrderID))
			order = nil
		case err != nil:
			return err
		}

		if order != nil {
			if s.clampProgress {
				qty = clampToRemaining(order, req.ItemID, qty, remainingToReceive)
			}
			if order.ApplyReceivingProgress(req.ItemID, qty) {
				if err := repos.OrderRepo().Save(ctx, order); err != nil {
					return err
				}
				pending = append(pending, drainEvents(order)...)
			}
		}

		item, err := repos.ItemRepo().FindByID(ctx, req.ItemID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Warn("receiving against item missing from ledger",
				zap.String("order_id", req.OrderID),
				zap.String("item_id", req.ItemID),
			)
			return nil
		case err != nil:
			return err
		}

		item.ApplyDelta(qty, req.Location)
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		pending = append(pending, drainEvents(item)...)

		if qty > 0 {
			movement, err := inventory.NewMovement(item.ID, inventory.MovementTypeIn, qty, "Receipt for order "+req.OrderID)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return s.snapshot(ctx)
}

// Pick applies picking progress to the order and decrements the ledger in
// one transaction. Picking more than on-hand clamps stock at zero; the call
// is never rejected for insufficient stock.
func (s *FulfillmentService) Pick(ctx context.Context, req PickRequest) (*SnapshotResponse, error) {
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		qty := req.Quantity

		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Debug("pick for unknown order", zap.String("order_id", req.OrderID))
			order = nil
		case err != nil:
			return err
		}

		if order != nil {
			if s.clampProgress {
				qty = clampToRemaining(order, req.ItemID, qty, remainingToPick)
			}
			if order.ApplyPickingProgress(req.ItemID, qty) {
				if err := repos.OrderRepo().Save(ctx, order); err != nil {
					return err
				}
				pending = append(pending, drainEvents(order)...)
			}
		}

		item, err := repos.ItemRepo().FindByID(ctx, req.ItemID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Debug("pick for item missing from ledger", zap.String("item_id", req.ItemID))
			return nil
		case err != nil:
			return err
		}

		item.ApplyDelta(-qty, "")
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		pending = append(pending, drainEvents(item)...)

		if qty > 0 {
			movement, err := inventory.NewMovement(item.ID, inventory.MovementTypeOut, qty, "Pick for order "+req.OrderID)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return s.snapshot(ctx)
}

// Pack records the manual packing-complete step for an order. Inventory is
// not touched; packing is a workflow marker between picking and shipping.
func (s *FulfillmentService) Pack(ctx context.Context, orderID string) (*SnapshotResponse, error) {
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("pack for unknown order", zap.String("order_id", orderID))
			return nil
		}
		if err != nil {
			return err
		}
		order.MarkPacked()
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		pending = append(pending, drainEvents(order)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return s.snapshot(ctx)
}

// Ship unconditionally marks the order shipped and stamps carrier and
// tracking number; inventory is not re-checked. When the caller supplies no
// tracking number a flat-rate stub number is generated.
func (s *FulfillmentService) Ship(ctx context.Context, req ShipRequest) (*SnapshotResponse, error) {
	tracking := req.TrackingNumber
	if tracking == "" {
		tracking = generateTrackingNumber()
	}

	var pending []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("ship for unknown order", zap.String("order_id", req.OrderID))
			return nil
		}
		if err != nil {
			return err
		}
		order.MarkShipped(req.Carrier, tracking)
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		pending = append(pending, drainEvents(order)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return s.snapshot(ctx)
}

// ListOrders returns orders matching the filter
func (s *FulfillmentService) ListOrders(ctx context.Context, filter orders.OrderFilter) ([]OrderResponse, error) {
	list, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(list), nil
}

// GetOrder returns a single order by id
func (s *FulfillmentService) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// PickList joins the order's lines with their current storage locations and
// sorts them by location code, yielding the walk order for the picker.
func (s *FulfillmentService) PickList(ctx context.Context, orderID string) (*PickListResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines := make([]PickListLine, 0, len(order.Items))
	for idx := range order.Items {
		orderLine := &order.Items[idx]
		location := UnknownLocation
		if item, err := s.itemRepo.FindByID(ctx, orderLine.ItemID); err == nil {
			location = item.Location
		}
		lines = append(lines, PickListLine{
			ItemID:   orderLine.ItemID,
			SKU:      orderLine.SKU,
			Name:     orderLine.Name,
			Quantity: orderLine.Quantity,
			Picked:   orderLine.Picked,
			Location: location,
		})
	}
	sort.Slice(lines, func(a, b int) bool {
		return lines[a].Location < lines[b].Location
	})

	return &PickListResponse{OrderID: order.ID, Lines: lines}, nil
}

// Snapshot returns the current full state of both aggregates
func (s *FulfillmentService) Snapshot(ctx context.Context) (*SnapshotResponse, error) {
	return s.snapshot(ctx)
}

func (s *FulfillmentService) snapshot(ctx context.Context) (*SnapshotResponse, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	orderList, err := s.orderRepo.FindAll(ctx, orders.OrderFilter{})
	if err != nil {
		return nil, err
	}

	return &SnapshotResponse{
		Inventory: inventoryapp.ToItemResponses(items),
		Orders:    ToOrderResponses(orderList),
	}, nil
}

// publish forwards pending domain events to the bus. The bus isolates
// handler failures; a slow or failing subscriber never affects the
// completed transition.
func (s *FulfillmentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// drainEvents collects and clears pending events from an aggregate
func drainEvents(root shared.AggregateRoot) []shared.DomainEvent {
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	return events
}

type remainingFunc func(line *orders.OrderItem) int64

func remainingToReceive(line *orders.OrderItem) int64 {
	return line.Quantity - line.Received
}

func remainingToPick(line *orders.OrderItem) int64 {
	return line.Quantity - line.Picked
}

// clampToRemaining caps qty at the line's outstanding amount when the clamp
// policy is enabled. Returns qty unchanged when the line is unknown; the
// subsequent progress call will no-op on it anyway.
func clampToRemaining(order *orders.Order, itemID string, qty int64, remaining remainingFunc) int64 {
	for idx := range order.Items {
		if order.Items[idx].ItemID != itemID {
			continue
		}
		left := remaining(&order.Items[idx])
		if left < 0 {
			left = 0
		}
		if qty > left {
			return left
		}
		return qty
	}
	return qty
}

// generateTrackingNumber produces a flat-rate stub tracking number in the
// form TRK-XXXXXXXXX
func generateTrackingNumber() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TRK-%09d", 0)
	}
	for i := range buf {
		buf[i] = charset[int(buf[i])%len(charset)]
	}
	return "TRK-" + string(buf)
}
