package controller

import (
	"context"
	"time"
)

// Loader fetches one page of items for a query from an asynchronous
// source. Implementations may block; the controller never calls a
// loader while holding its lock.
type Loader[T any] func(ctx context.Context, query string, page, pageSize int) ([]T, error)

// Predicate decides whether an item passes a filter
type Predicate[T any] func(T) bool

// Less is a total order over items
type Less[T any] func(a, b T) bool

// Options configures a controller. Start from DefaultOptions and
// override what you need; a zero DebounceDelay is meaningful (searches
// evaluate immediately).
type Options[T any] struct {
	DebounceDelay  time.Duration
	CaseSensitive  bool
	MinQueryLength int
	PageSize       int
	CacheEnabled   bool
	MaxCacheSize   int
	FuzzyEnabled   bool
	FuzzyThreshold float64 // minimum fuzzy score in (0, 1] an item must reach

	// SearchFields projects an item to the strings it is matched
	// against. When nil, text queries do not filter items at all.
	SearchFields func(T) []string

	// Less is the initial comparator; nil preserves collection order
	Less Less[T]

	// Loader is the initial asynchronous source; nil starts the
	// controller in offline mode
	Loader Loader[T]

	// Items is the initial offline collection
	Items []T
}

// DefaultOptions returns the baseline configuration
func DefaultOptions[T any]() Options[T] {
	return Options[T]{
		DebounceDelay:  250 * time.Millisecond,
		MinQueryLength: 0,
		PageSize:       20,
		CacheEnabled:   true,
		MaxCacheSize:   10,
		FuzzyThreshold: 0.3,
	}
}
