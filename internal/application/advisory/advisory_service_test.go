package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/orders"
	"github.com/wms/backend/internal/domain/shared"
)

type fakeGateway struct {
	location       string
	packaging      string
	insights       []Insight
	chatReply      string
	draft          *ProductDraft
	err            error
	locationCalls  int
	summarizeCalls int
}

func (g *fakeGateway) SuggestLocation(_ context.Context, _ ItemSummary) (string, error) {
	g.locationCalls++
	return g.location, g.err
}

func (g *fakeGateway) SuggestPackaging(_ context.Context, _ []LineSummary) (string, error) {
	return g.packaging, g.err
}

func (g *fakeGateway) SummarizeInsights(_ context.Context, _ []ItemSummary) ([]Insight, error) {
	g.summarizeCalls++
	return g.insights, g.err
}

func (g *fakeGateway) Chat(_ context.Context, _ string, _ []ItemSummary) (string, error) {
	return g.chatReply, g.err
}

func (g *fakeGateway) IdentifyProduct(_ context.Context, _, _ string) (*ProductDraft, error) {
	return g.draft, g.err
}

type fakeItemRepo struct {
	items []inventory.Item
}

func (r *fakeItemRepo) FindByID(_ context.Context, id string) (*inventory.Item, error) {
	for idx := range r.items {
		if r.items[idx].ID == id {
			copied := r.items[idx]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepo) FindAll(_ context.Context) ([]inventory.Item, error) {
	return r.items, nil
}

func (r *fakeItemRepo) FindBelowMinimum(_ context.Context) ([]inventory.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Save(_ context.Context, _ *inventory.Item) error { return nil }
func (r *fakeItemRepo) Delete(_ context.Context, _ string) error        { return nil }
func (r *fakeItemRepo) Count(_ context.Context) (int64, error)          { return int64(len(r.items)), nil }

type fakeOrderRepo struct {
	order *orders.Order
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*orders.Order, error) {
	if r.order != nil && r.order.ID == id {
		return r.order, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ orders.OrderFilter) ([]orders.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, _ *orders.Order) error { return nil }

func (r *fakeOrderRepo) Count(_ context.Context, _ orders.OrderFilter) (int64, error) {
	return 0, nil
}

func newService(gateway Gateway, itemRepo inventory.ItemRepository, orderRepo orders.OrderRepository) *AdvisoryService {
	return NewAdvisoryService(gateway, itemRepo, orderRepo, zap.NewNop())
}

func TestSuggestPutaway(t *testing.T) {
	item, err := inventory.NewItem(inventory.ItemDraft{SKU: "TECH-001", Name: "Wireless Mouse"})
	require.NoError(t, err)
	itemRepo := &fakeItemRepo{items: []inventory.Item{*item}}

	t.Run("returns the gateway suggestion", func(t *testing.T) {
		gateway := &fakeGateway{location: "B-07-03"}
		service := newService(gateway, itemRepo, &fakeOrderRepo{})
		assert.Equal(t, "B-07-03", service.SuggestPutaway(context.Background(), item.ID))
	})

	t.Run("falls back when the gateway fails", func(t *testing.T) {
		gateway := &fakeGateway{err: errors.New("backend unavailable")}
		service := newService(gateway, itemRepo, &fakeOrderRepo{})
		assert.Equal(t, FallbackLocation, service.SuggestPutaway(context.Background(), item.ID))
	})

	t.Run("falls back on an empty suggestion", func(t *testing.T) {
		gateway := &fakeGateway{location: ""}
		service := newService(gateway, itemRepo, &fakeOrderRepo{})
		assert.Equal(t, FallbackLocation, service.SuggestPutaway(context.Background(), item.ID))
	})

	t.Run("unknown item still asks the gateway", func(t *testing.T) {
		gateway := &fakeGateway{location: "C-02-09"}
		service := newService(gateway, itemRepo, &fakeOrderRepo{})
		assert.Equal(t, "C-02-09", service.SuggestPutaway(context.Background(), "missing"))
		assert.Equal(t, 1, gateway.locationCalls)
	})
}

func TestSuggestPackaging(t *testing.T) {
	order, err := orders.NewOrder("SO-2024-101", orders.OrderTypeOutbound, "Acme Corp", time.Now())
	require.NoError(t, err)
	require.NoError(t, order.AddItem("item-1", "FUR-105", "Office Chair", 2))
	orderRepo := &fakeOrderRepo{order: order}

	t.Run("returns the gateway suggestion", func(t *testing.T) {
		gateway := &fakeGateway{packaging: "Large Box with padding"}
		service := newService(gateway, &fakeItemRepo{}, orderRepo)
		assert.Equal(t, "Large Box with padding", service.SuggestPackaging(context.Background(), "SO-2024-101"))
	})

	t.Run("falls back when the gateway fails", func(t *testing.T) {
		gateway := &fakeGateway{err: errors.New("timeout")}
		service := newService(gateway, &fakeItemRepo{}, orderRepo)
		assert.Equal(t, FallbackPackaging, service.SuggestPackaging(context.Background(), "SO-2024-101"))
	})

	t.Run("falls back for an unknown order", func(t *testing.T) {
		gateway := &fakeGateway{packaging: "Small Box"}
		service := newService(gateway, &fakeItemRepo{}, orderRepo)
		assert.Equal(t, FallbackPackaging, service.SuggestPackaging(context.Background(), "SO-MISSING"))
	})
}

func TestInsights(t *testing.T) {
	t.Run("cache starts empty", func(t *testing.T) {
		service := newService(&fakeGateway{}, &fakeItemRepo{}, &fakeOrderRepo{})
		assert.Empty(t, service.Insights())
	})

	t.Run("refresh replaces the cache", func(t *testing.T) {
		gateway := &fakeGateway{insights: []Insight{{Kind: InsightKindWarning, Message: "FUR-105 below minimum"}}}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})

		service.RefreshInsights(context.Background())

		insights := service.Insights()
		require.Len(t, insights, 1)
		assert.Equal(t, InsightKindWarning, insights[0].Kind)
	})

	t.Run("failed refresh keeps the previous cache", func(t *testing.T) {
		gateway := &fakeGateway{insights: []Insight{{Kind: InsightKindInfo, Message: "stock healthy"}}}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})
		service.RefreshInsights(context.Background())

		gateway.err = errors.New("backend unavailable")
		service.RefreshInsights(context.Background())

		insights := service.Insights()
		require.Len(t, insights, 1)
		assert.Equal(t, "stock healthy", insights[0].Message)
	})

	t.Run("nil gateway result yields an empty list", func(t *testing.T) {
		service := newService(&fakeGateway{insights: nil}, &fakeItemRepo{}, &fakeOrderRepo{})
		service.RefreshInsights(context.Background())
		assert.NotNil(t, service.Insights())
		assert.Empty(t, service.Insights())
	})
}

func TestChat(t *testing.T) {
	t.Run("returns the gateway reply", func(t *testing.T) {
		gateway := &fakeGateway{chatReply: "You have 45 wireless mice on hand."}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})
		assert.Equal(t, "You have 45 wireless mice on hand.", service.Chat(context.Background(), "how many mice?"))
	})

	t.Run("falls back on gateway failure", func(t *testing.T) {
		gateway := &fakeGateway{err: errors.New("rate limited")}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})
		assert.Equal(t, FallbackChatReply, service.Chat(context.Background(), "how many mice?"))
	})
}

func TestIdentifyProduct(t *testing.T) {
	t.Run("returns the gateway draft", func(t *testing.T) {
		gateway := &fakeGateway{draft: &ProductDraft{Name: "Ergonomic Keyboard", Category: "Electronics"}}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})

		draft, err := service.IdentifyProduct(context.Background(), "aGVsbG8=", "image/png")
		require.NoError(t, err)
		assert.Equal(t, "Ergonomic Keyboard", draft.Name)
	})

	t.Run("surfaces the gateway error", func(t *testing.T) {
		gateway := &fakeGateway{err: errors.New("unsupported image")}
		service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})

		_, err := service.IdentifyProduct(context.Background(), "aGVsbG8=", "image/png")
		assert.Error(t, err)
	})
}

func TestInsightRefreshHandler(t *testing.T) {
	gateway := &fakeGateway{insights: []Insight{{Kind: InsightKindSuggestion, Message: "reorder OFF-202"}}}
	service := newService(gateway, &fakeItemRepo{}, &fakeOrderRepo{})
	handler := NewInsightRefreshHandler(service)

	assert.Contains(t, handler.EventTypes(), inventory.EventTypeStockAdjusted)
	assert.Contains(t, handler.EventTypes(), orders.EventTypeOrderShipped)

	event := inventory.NewStockBelowMinimumEvent(&inventory.Item{ID: "item-1", SKU: "FUR-105"})
	require.NoError(t, handler.Handle(context.Background(), event))

	insights := service.Insights()
	require.Len(t, insights, 1)
	assert.Equal(t, "reorder OFF-202", insights[0].Message)
	assert.Equal(t, 1, gateway.summarizeCalls)
}
