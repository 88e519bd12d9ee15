package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryChanged     EventType = "QueryChanged"
	EventSearchStarted    EventType = "SearchStarted"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventItemsChanged     EventType = "ItemsChanged"
	EventFilterChanged    EventType = "FilterChanged"
	EventSortChanged      EventType = "SortChanged"
	EventSelectionChanged EventType = "SelectionChanged"
	EventLoadMoreStarted  EventType = "LoadMoreStarted"
	EventPageLoaded       EventType = "PageLoaded"
	EventLoadMoreFailed   EventType = "LoadMoreFailed"
	EventSettingsChanged  EventType = "SettingsChanged"
	EventDisposed         EventType = "Disposed"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryChangedEvent is emitted when the query text changes without an
// immediate evaluation (debounce pending, or the minimum-length gate held
// the previous results in place)
type QueryChangedEvent struct {
	Query string
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// SearchStartedEvent is emitted when an asynchronous search is issued
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when search results are committed
type SearchCompletedEvent struct {
	Query     string
	Count     int
	FromCache bool
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when an asynchronous search fails
type SearchFailedEvent struct {
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ItemsChangedEvent is emitted when the backing item collection is replaced
type ItemsChangedEvent struct {
	Count int
}

func (e ItemsChangedEvent) Type() EventType { return EventItemsChanged }

// FilterChangedEvent is emitted when a filter is set, removed or cleared
type FilterChangedEvent struct {
	Key     string // empty when all filters were cleared
	Removed bool
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }

// SortChangedEvent is emitted when the comparator changes
type SortChangedEvent struct{}

func (e SortChangedEvent) Type() EventType { return EventSortChanged }

// SelectionChangedEvent is emitted when selection membership changes
type SelectionChangedEvent struct {
	Added   int
	Removed int
	Total   int
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// LoadMoreStartedEvent is emitted when a next-page fetch is issued
type LoadMoreStartedEvent struct {
	Page int
}

func (e LoadMoreStartedEvent) Type() EventType { return EventLoadMoreStarted }

// PageLoadedEvent is emitted when a next page has been appended
type PageLoadedEvent struct {
	Page    int
	Count   int
	HasMore bool
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// LoadMoreFailedEvent is emitted when a next-page fetch fails
type LoadMoreFailedEvent struct {
	Page int
	Err  error
}

func (e LoadMoreFailedEvent) Type() EventType { return EventLoadMoreFailed }

// SettingsChangedEvent is emitted when a runtime option changes
// (case sensitivity, fuzzy toggle/threshold, minimum query length)
type SettingsChangedEvent struct{}

func (e SettingsChangedEvent) Type() EventType { return EventSettingsChanged }

// DisposedEvent is the final event a controller emits
type DisposedEvent struct{}

func (e DisposedEvent) Type() EventType { return EventDisposed }
