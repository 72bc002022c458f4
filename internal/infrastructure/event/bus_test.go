package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", "agg-1"),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// waitFor polls until fn returns true or the deadline passes
func waitFor(t *testing.T, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Fail(t, "condition not met before deadline")
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := startedBus(t)

	handler := newTestHandler("StockAdjusted")
	bus.Subscribe(handler)

	event := newTestEvent("StockAdjusted")
	require.NoError(t, bus.Publish(context.Background(), event))

	waitFor(t, func() bool { return len(handler.getHandled()) == 1 })
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_PublishReturnsBeforeHandlers(t *testing.T) {
	bus := startedBus(t)

	release := make(chan struct{})
	done := make(chan struct{})
	handler := &blockingHandler{release: release, done: done}
	bus.Subscribe(handler, "OrderShipped")

	start := time.Now()
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderShipped")))
	assert.Less(t, time.Since(start), 500*time.Millisecond, "publish must not wait on handlers")

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

type blockingHandler struct {
	release chan struct{}
	done    chan struct{}
}

func (h *blockingHandler) Handle(_ context.Context, _ shared.DomainEvent) error {
	<-h.release
	close(h.done)
	return nil
}

func (h *blockingHandler) EventTypes() []string { return []string{"OrderShipped"} }

func TestInMemoryEventBus_HandlerErrorIsIsolated(t *testing.T) {
	bus := startedBus(t)

	failing := newTestHandler("StockAdjusted")
	failing.err = errors.New("handler failure")
	healthy := newTestHandler("StockAdjusted")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

	waitFor(t, func() bool { return len(healthy.getHandled()) == 1 })
}

func TestInMemoryEventBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := startedBus(t)

	panicking := newTestHandler("StockAdjusted")
	panicking.panics = true
	healthy := newTestHandler("StockAdjusted")
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

	waitFor(t, func() bool { return len(healthy.getHandled()) == 1 })
}

func TestInMemoryEventBus_DropsEventsWhenStopped(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("StockAdjusted")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)

	handler := newTestHandler("StockAdjusted")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockAdjusted")))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, handler.getHandled())
}

func TestHandlerRegistry_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := newTestHandler()
	specific := newTestHandler("StockAdjusted")

	registry.Register(wildcard)
	registry.Register(specific, "StockAdjusted")

	assert.Len(t, registry.GetHandlers("StockAdjusted"), 2)
	assert.Len(t, registry.GetHandlers("OrderShipped"), 1)
}
