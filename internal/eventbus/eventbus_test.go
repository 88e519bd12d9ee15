package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siftview/internal/domain"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := New()

	var got []DomainEvent
	bus.Subscribe(EventSearchCompleted, func(e DomainEvent) {
		got = append(got, e)
	})

	bus.Publish(domain.SearchCompletedEvent{Query: "apple", Count: 2})
	bus.Publish(domain.SelectionChangedEvent{Added: 1, Total: 1})

	require.Len(t, got, 1, "only the subscribed type is delivered")
	assert.Equal(t, "apple", got[0].(SearchCompletedEvent).Query)
}

func TestDispatchIsSynchronousAndOrdered(t *testing.T) {
	bus := New()

	var order []string
	bus.Subscribe(EventQueryChanged, func(DomainEvent) { order = append(order, "first") })
	bus.Subscribe(EventQueryChanged, func(DomainEvent) { order = append(order, "second") })

	bus.Publish(domain.QueryChangedEvent{Query: "a"})
	assert.Equal(t, []string{"first", "second"}, order,
		"handlers run before Publish returns, in subscription order")
}

func TestUnsubscribe(t *testing.T) {
	bus := New()

	calls := 0
	unsubscribe := bus.Subscribe(EventDisposed, func(DomainEvent) { calls++ })

	bus.Publish(domain.DisposedEvent{})
	unsubscribe()
	bus.Publish(domain.DisposedEvent{})

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeOneOfTwo(t *testing.T) {
	bus := New()

	first, second := 0, 0
	stopFirst := bus.Subscribe(EventItemsChanged, func(DomainEvent) { first++ })
	bus.Subscribe(EventItemsChanged, func(DomainEvent) { second++ })

	stopFirst()
	bus.Publish(domain.ItemsChangedEvent{Count: 3})

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestSubscribeAll(t *testing.T) {
	bus := New()

	var types []EventType
	unsubscribe := bus.SubscribeAll(func(e DomainEvent) { types = append(types, e.Type()) })

	bus.Publish(domain.QueryChangedEvent{Query: "x"})
	bus.Publish(domain.DisposedEvent{})
	unsubscribe()
	bus.Publish(domain.ItemsChangedEvent{})

	assert.Equal(t, []EventType{EventQueryChanged, EventDisposed}, types)
}

func TestHandlerPanicIsContained(t *testing.T) {
	bus := New()

	bus.Subscribe(EventQueryChanged, func(DomainEvent) { panic("boom") })
	delivered := false
	bus.Subscribe(EventQueryChanged, func(DomainEvent) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(domain.QueryChangedEvent{Query: "x"})
	})
	assert.True(t, delivered, "a panicking handler does not stop delivery")
}
