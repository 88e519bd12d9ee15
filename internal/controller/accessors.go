package controller

import (
	"siftview/internal/domain"
	"siftview/internal/fuzzy"
)

// Every accessor returns a defensive copy: mutating a returned slice or
// map never affects controller state.

// Displayed returns the current post-pipeline view
func (c *Controller[T]) Displayed() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.displayed...)
}

// Items returns the full offline collection
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Selected returns the selection set in selection order
func (c *Controller[T]) Selected() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.selOrder...)
}

// SelectedCount returns the size of the selection set
func (c *Controller[T]) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selection)
}

// Filters returns the active filter mapping
func (c *Controller[T]) Filters() map[string]Predicate[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Predicate[T], len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// Query returns the current query, including text still debouncing or
// held back by the minimum-length gate
func (c *Controller[T]) Query() domain.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Query{Text: c.query}
}

// AppliedQuery returns the last query that actually evaluated
func (c *Controller[T]) AppliedQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appliedQuery
}

// Comparator returns the active comparator, or nil
func (c *Controller[T]) Comparator() Less[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.less
}

// Err returns the current error, or nil
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether a query-triggered fetch is in flight
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadingMore reports whether a next-page fetch is in flight
func (c *Controller[T]) LoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingMore
}

// HasMore reports whether another page is expected to be available
func (c *Controller[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// HasSearched reports whether a non-empty query has been applied
func (c *Controller[T]) HasSearched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasSearched
}

// Disposed reports whether the controller has been disposed
func (c *Controller[T]) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// FuzzyEnabled reports whether fuzzy matching is active
func (c *Controller[T]) FuzzyEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fuzzyEnabled
}

// CaseSensitive reports the active case policy
func (c *Controller[T]) CaseSensitive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caseSensitive
}

// MatchFor scores an item against the applied query using the current
// settings. UI layers use the returned indices for highlighting; the
// field index identifies which search field won.
func (c *Controller[T]) MatchFor(item T) (fuzzy.Match, int, bool) {
	c.mu.Lock()
	query := c.appliedQuery
	fields := c.searchFields
	caseSensitive := c.caseSensitive
	c.mu.Unlock()

	if query == "" || fields == nil {
		return fuzzy.Match{}, -1, false
	}
	return fuzzy.FindFields(query, fields(item), caseSensitive)
}
