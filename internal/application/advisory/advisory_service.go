package advisory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
)

// Deterministic fallbacks used whenever the advisory backend fails. A
// failing gateway degrades to these values; it never surfaces as an error
// to receive/pick/ship flows.
const (
	FallbackLocation  = "A-01-01"
	FallbackPackaging = "Medium Box"
	FallbackChatReply = "Sorry, I encountered an error processing your request."
)

// callTimeout bounds every advisory call independently of the caller's
// context
const callTimeout = 30 * time.Second

// AdvisoryService fronts the advisory gateway with fallback handling and an
// insight cache. Insights are refreshed in the background off domain events;
// reads serve the cache and never wait on the backend.
type AdvisoryService struct {
	gateway   Gateway
	itemRepo  inventory.ItemRepository
	orderRepo orders.OrderRepository
	logger    *zap.Logger

	mu       sync.RWMutex
	insights []Insight
}

// NewAdvisoryService creates a new AdvisoryService
func NewAdvisoryService(
	gateway Gateway,
	itemRepo inventory.ItemRepository,
	orderRepo orders.OrderRepository,
	logger *zap.Logger,
) *AdvisoryService {
	return &AdvisoryService{
		gateway:   gateway,
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
		logger:    logger,
		insights:  []Insight{},
	}
}

// SuggestPutaway proposes a storage location for the given item. Returns
// FallbackLocation when the item is unknown or the backend fails.
func (s *AdvisoryService) SuggestPutaway(ctx context.Context, itemID string) string {
	summary := ItemSummary{}
	if item, err := s.itemRepo.FindByID(ctx, itemID); err == nil {
		summary = toItemSummary(item)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	location, err := s.gateway.SuggestLocation(ctx, summary)
	if err != nil || location == "" {
		s.logger.Warn("putaway suggestion failed, using fallback",
			zap.String("item_id", itemID),
			zap.Error(err),
		)
		return FallbackLocation
	}
	return location
}

// SuggestPackaging proposes a carton for the order's lines. Returns
// FallbackPackaging when the order is unknown or the backend fails.
func (s *AdvisoryService) SuggestPackaging(ctx context.Context, orderID string) string {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("packaging suggestion for unknown order, using fallback",
			zap.String("order_id", orderID),
		)
		return FallbackPackaging
	}

	lines := make([]LineSummary, 0, len(order.Items))
	for idx := range order.Items {
		lines = append(lines, LineSummary{
			Name:     order.Items[idx].Name,
			Quantity: order.Items[idx].Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	packaging, err := s.gateway.SuggestPackaging(ctx, lines)
	if err != nil || packaging == "" {
		s.logger.Warn("packaging suggestion failed, using fallback",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return FallbackPackaging
	}
	return packaging
}

// Insights returns the cached insight list. Never calls the backend.
func (s *AdvisoryService) Insights() []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Insight, len(s.insights))
	copy(out, s.insights)
	return out
}

// RefreshInsights asks the backend to review the current stock position and
// replaces the cache on success. On failure the previous cache is kept.
func (s *AdvisoryService) RefreshInsights(ctx context.Context) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		s.logger.Warn("insight refresh skipped, inventory unavailable", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	insights, err := s.gateway.SummarizeInsights(ctx, toItemSummaries(items))
	if err != nil {
		s.logger.Warn("insight refresh failed, keeping cached insights", zap.Error(err))
		return
	}
	if insights == nil {
		insights = []Insight{}
	}

	s.mu.Lock()
	s.insights = insights
	s.mu.Unlock()
}

// Chat answers a free-form question with the current inventory as context.
// Returns FallbackChatReply on any backend failure.
func (s *AdvisoryService) Chat(ctx context.Context, message string) string {
	var summaries []ItemSummary
	if items, err := s.itemRepo.FindAll(ctx); err == nil {
		summaries = toItemSummaries(items)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	reply, err := s.gateway.Chat(ctx, message, summaries)
	if err != nil || reply == "" {
		s.logger.Warn("chat request failed, using fallback reply", zap.Error(err))
		return FallbackChatReply
	}
	return reply
}

// IdentifyProduct drafts item fields from a product photo. Unlike the other
// operations there is no sensible fallback value, so backend failures
// surface to the caller.
func (s *AdvisoryService) IdentifyProduct(ctx context.Context, imageData, mimeType string) (*ProductDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return s.gateway.IdentifyProduct(ctx, imageData, mimeType)
}

func toItemSummary(item *inventory.Item) ItemSummary {
	return ItemSummary{
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		Quantity:      item.Quantity,
		MinStockLevel: item.MinStockLevel,
		Location:      item.Location,
	}
}

func toItemSummaries(items []inventory.Item) []ItemSummary {
	summaries := make([]ItemSummary, 0, len(items))
	for idx := range items {
		summaries = append(summaries, toItemSummary(&items[idx]))
	}
	return summaries
}
