package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"siftview/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventQueryChanged     = domain.EventQueryChanged
	EventSearchStarted    = domain.EventSearchStarted
	EventSearchCompleted  = domain.EventSearchCompleted
	EventSearchFailed     = domain.EventSearchFailed
	EventItemsChanged     = domain.EventItemsChanged
	EventFilterChanged    = domain.EventFilterChanged
	EventSortChanged      = domain.EventSortChanged
	EventSelectionChanged = domain.EventSelectionChanged
	EventLoadMoreStarted  = domain.EventLoadMoreStarted
	EventPageLoaded       = domain.EventPageLoaded
	EventLoadMoreFailed   = domain.EventLoadMoreFailed
	EventSettingsChanged  = domain.EventSettingsChanged
	EventDisposed         = domain.EventDisposed
)

// Re-export domain event types
type QueryChangedEvent = domain.QueryChangedEvent
type SearchStartedEvent = domain.SearchStartedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type ItemsChangedEvent = domain.ItemsChangedEvent
type FilterChangedEvent = domain.FilterChangedEvent
type SortChangedEvent = domain.SortChangedEvent
type SelectionChangedEvent = domain.SelectionChangedEvent
type LoadMoreStartedEvent = domain.LoadMoreStartedEvent
type PageLoadedEvent = domain.PageLoadedEvent
type LoadMoreFailedEvent = domain.LoadMoreFailedEvent
type SettingsChangedEvent = domain.SettingsChangedEvent
type DisposedEvent = domain.DisposedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	SubscribeAll(handler EventHandler) func()
}

type subscription struct {
	id      int
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Dispatch is synchronous and in subscription order: Publish returns only
// after every handler has run, so subscribers observe state changes in
// the order they were made.
type bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType][]subscription
	all      []subscription
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish delivers an event to all subscribers of its type, then to
// catch-all subscribers
func (b *bus) Publish(event DomainEvent) {
	b.mu.RLock()
	typed := make([]subscription, len(b.handlers[event.Type()]))
	copy(typed, b.handlers[event.Type()])
	catchAll := make([]subscription, len(b.all))
	copy(catchAll, b.all)
	b.mu.RUnlock()

	for _, sub := range typed {
		call(sub.handler, event)
	}
	for _, sub := range catchAll {
		call(sub.handler, event)
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, sub := range subs {
			if sub.id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// SubscribeAll subscribes to every event regardless of type
// Returns an unsubscribe function
func (b *bus) SubscribeAll(handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.all = append(b.all, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		for i, sub := range b.all {
			if sub.id == id {
				b.all = append(b.all[:i], b.all[i+1:]...)
				break
			}
		}
	}
}

func call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}
