package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, aggregateID int64) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", aggregateID),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	delay      time.Duration
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	if h.panics {
		panic("boom")
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

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	event := newTestEvent("OrderPlaced", 1)
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEventsAndHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("OrderPlaced")
	handler2 := newTestHandler("OrderPlaced")
	bus.Subscribe(handler1)
	bus.Subscribe(handler2)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1), newTestEvent("OrderPlaced", 2))

	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 2)
	assert.Len(t, handler2.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcard := newTestHandler()
	typed := newTestHandler("ShopStateChanged")
	bus.Subscribe(wildcard)
	bus.Subscribe(typed)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1)))

	assert.Len(t, wildcard.getHandled(), 1)
	assert.Empty(t, typed.getHandled())
}

func TestInMemoryEventBus_Publish_HandlerFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("OrderPlaced")
	failing.err = errors.New("broker down")
	panicking := newTestHandler("OrderPlaced")
	panicking.panics = true
	healthy := newTestHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", 7)))

	assert.Len(t, healthy.getHandled(), 1)
	assert.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())

	entry := logs.FilterMessage("handler failed to process event").All()[0]
	assert.Equal(t, int64(7), entry.ContextMap()["aggregate_id"])
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1))

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced", 2))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_AsyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler()
	handler.delay = 20 * time.Millisecond
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced", 1)))
	// The request context ending must not abort delivery
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StopDropsNewEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1)))

	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StopTimeout(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	handler := newTestHandler()
	handler.delay = 200 * time.Millisecond
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced", 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()

	r.Register(a, "OrderPlaced", "OrderStateChanged")
	r.Register(b)

	assert.Len(t, r.GetHandlers("OrderPlaced"), 2)
	assert.Len(t, r.GetHandlers("CatalogImported"), 1)

	r.Unregister(a)
	assert.Len(t, r.GetHandlers("OrderPlaced"), 1)
	assert.Empty(t, r.handlers)

	r.Unregister(b)
	assert.Empty(t, r.GetHandlers("OrderPlaced"))
}
