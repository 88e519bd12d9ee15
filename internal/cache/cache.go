// Package cache provides a bounded FIFO store for query result snapshots.
package cache

// Results maps normalized query strings to immutable page-0 result
// snapshots. Once the entry count exceeds the configured maximum the
// oldest inserted entry is evicted. Values are copied on the way in and
// on the way out so no caller ever holds a reference into the cache;
// pagination appending to a served result can therefore never corrupt
// the stored snapshot.
type Results[T any] struct {
	max     int
	order   []string
	entries map[string][]T
}

// New creates a results cache holding at most max entries.
// A max of zero or less disables storage entirely.
func New[T any](max int) *Results[T] {
	return &Results[T]{
		max:     max,
		entries: make(map[string][]T),
	}
}

// Get returns a copy of the snapshot stored under key
func (c *Results[T]) Get(key string) ([]T, bool) {
	snapshot, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return append([]T(nil), snapshot...), true
}

// Add stores a copy of items under key, evicting the oldest entry when
// the cache is full. Re-adding an existing key replaces its snapshot
// without changing its position in the eviction order.
func (c *Results[T]) Add(key string, items []T) {
	if c.max <= 0 {
		return
	}
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = append([]T(nil), items...)
}

// Remove deletes a single entry
func (c *Results[T]) Remove(key string) {
	if _, exists := c.entries[key]; !exists {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Purge removes all entries
func (c *Results[T]) Purge() {
	c.order = nil
	c.entries = make(map[string][]T)
}

// Len returns the number of stored entries
func (c *Results[T]) Len() int {
	return len(c.entries)
}
