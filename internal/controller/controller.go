// Package controller turns an item collection into a searchable,
// filterable, sortable, paginated and multi-selectable view, fed either
// from memory (offline mode) or from a paged asynchronous source
// (online mode). UI layers subscribe to the event bus and re-read the
// accessors after each event.
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"siftview/internal/cache"
	"siftview/internal/domain"
	"siftview/internal/eventbus"
)

// Controller owns all mutable view state. Its methods are safe for use
// from a single logical caller interleaved with the controller's own
// timer and loader goroutines; the internal mutex serializes them.
type Controller[T comparable] struct {
	mu  sync.Mutex
	bus eventbus.EventBus
	ctx context.Context

	// runtime settings
	debounce       time.Duration
	caseSensitive  bool
	minQueryLength int
	pageSize       int
	cacheEnabled   bool
	fuzzyEnabled   bool
	fuzzyThreshold float64
	searchFields   func(T) []string
	less           Less[T]

	items     []T // offline master collection
	displayed []T
	filters   map[string]Predicate[T]
	selection map[T]struct{}
	selOrder  []T

	loader Loader[T]
	cache  *cache.Results[T]

	query        string // current query text, possibly gated or debouncing
	appliedQuery string // last query that actually evaluated
	hasSearched  bool

	reqID       uint64
	timer       *time.Timer
	timerGen    int
	page        int
	err         error
	loading     bool
	loadingMore bool
	hasMore     bool
	disposed    bool
}

// New creates a controller from opts. The initial item collection is
// filtered through the (empty-query) pipeline immediately.
func New[T comparable](opts Options[T]) *Controller[T] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultOptions[T]().PageSize
	}

	c := &Controller[T]{
		bus:            eventbus.New(),
		ctx:            context.Background(),
		debounce:       opts.DebounceDelay,
		caseSensitive:  opts.CaseSensitive,
		minQueryLength: opts.MinQueryLength,
		pageSize:       pageSize,
		cacheEnabled:   opts.CacheEnabled,
		fuzzyEnabled:   opts.FuzzyEnabled,
		fuzzyThreshold: opts.FuzzyThreshold,
		searchFields:   opts.SearchFields,
		less:           opts.Less,
		filters:        make(map[string]Predicate[T]),
		selection:      make(map[T]struct{}),
		loader:         opts.Loader,
		cache:          cache.New[T](opts.MaxCacheSize),
	}
	if opts.Items != nil {
		c.items = append([]T(nil), opts.Items...)
		if c.loader == nil {
			c.displayed = c.pipelineLocked("")
		}
	}
	return c
}

// Bus returns the controller's event bus for subscriptions
func (c *Controller[T]) Bus() eventbus.EventBus {
	return c.bus
}

// --- query lifecycle ---

// SetQuery updates the query text and schedules a debounced evaluation.
// Only the last call within the debounce window evaluates; with a zero
// delay the evaluation happens immediately.
func (c *Controller[T]) SetQuery(text string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	changed := text != c.query
	c.query = text
	c.stopTimerLocked()

	if c.debounce <= 0 {
		events := c.evalLocked(text)
		if len(events) == 0 && changed {
			events = []domain.DomainEvent{domain.QueryChangedEvent{Query: text}}
		}
		c.mu.Unlock()
		c.publish(events)
		return
	}

	gen := c.timerGen
	c.timer = time.AfterFunc(c.debounce, func() { c.debouncedEval(text, gen) })
	c.mu.Unlock()
	if changed {
		c.publish([]domain.DomainEvent{domain.QueryChangedEvent{Query: text}})
	}
}

// SearchNow evaluates text immediately, cancelling any pending
// debounced evaluation so it cannot later override this result
func (c *Controller[T]) SearchNow(text string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	changed := text != c.query
	c.query = text
	c.stopTimerLocked()
	events := c.evalLocked(text)
	if len(events) == 0 && changed {
		events = []domain.DomainEvent{domain.QueryChangedEvent{Query: text}}
	}
	c.mu.Unlock()
	c.publish(events)
}

// ClearQuery resets the query to empty and restores the view filtered
// by the remaining criteria. The empty query is exempt from the
// minimum-length gate.
func (c *Controller[T]) ClearQuery() {
	c.SearchNow("")
}

// Retry re-issues the last applied query against the current source,
// clearing only the error. The cache is left intact.
func (c *Controller[T]) Retry() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.err = nil
	events := c.evalLocked(c.appliedQuery)
	c.mu.Unlock()
	c.publish(events)
}

// Refresh clears the cache and re-issues the last applied query at page
// zero; the more-pages flag is recomputed from the fresh result
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.cache.Purge()
	c.err = nil
	events := c.evalLocked(c.appliedQuery)
	c.mu.Unlock()
	c.publish(events)
}

// debouncedEval runs when the debounce timer fires. The generation
// check drops firings that lost the race against a newer SetQuery,
// SearchNow or Dispose.
func (c *Controller[T]) debouncedEval(text string, gen int) {
	c.mu.Lock()
	if c.disposed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	events := c.evalLocked(text)
	c.mu.Unlock()
	c.publish(events)
}

// evalLocked applies text as the current search. Returns the events to
// publish after unlocking; an empty slice means the minimum-length gate
// held the previous results in place.
func (c *Controller[T]) evalLocked(text string) []domain.DomainEvent {
	q := domain.Query{Text: text}
	if !q.IsEmpty() && q.TrimmedLen() < c.minQueryLength {
		return nil
	}

	// Clear any prior error before a result exists, and supersede every
	// outstanding request: whatever this evaluation produces is now the
	// only result allowed to commit.
	c.err = nil
	c.appliedQuery = text
	c.hasSearched = !q.IsEmpty()
	c.loadingMore = false
	c.page = 0
	c.reqID++

	if c.loader == nil {
		c.displayed = c.pipelineLocked(text)
		c.hasMore = false
		c.loading = false
		return []domain.DomainEvent{domain.SearchCompletedEvent{Query: text, Count: len(c.displayed)}}
	}

	key := c.cacheKeyLocked(text)
	if c.cacheEnabled {
		if snapshot, ok := c.cache.Get(key); ok {
			c.displayed = snapshot
			c.hasMore = len(snapshot) >= c.pageSize
			c.loading = false
			return []domain.DomainEvent{domain.SearchCompletedEvent{Query: text, Count: len(snapshot), FromCache: true}}
		}
	}

	c.loading = true
	id := c.reqID
	go c.runSearch(id, text, key, c.loader, c.pageSize)
	return []domain.DomainEvent{domain.SearchStartedEvent{Query: text}}
}

// runSearch performs an asynchronous page-0 fetch and commits the
// outcome only while its request id is still current
func (c *Controller[T]) runSearch(id uint64, query, key string, loader Loader[T], pageSize int) {
	items, err := invoke(c.ctx, loader, query, 0, pageSize)

	c.mu.Lock()
	if c.disposed || id != c.reqID {
		c.mu.Unlock()
		return
	}
	var event domain.DomainEvent
	if err != nil {
		c.err = err
		c.loading = false
		c.displayed = nil
		c.hasMore = false
		event = domain.SearchFailedEvent{Query: query, Err: err}
	} else {
		c.displayed = append([]T(nil), items...)
		c.page = 0
		c.hasMore = len(items) >= pageSize
		c.loading = false
		if c.cacheEnabled {
			c.cache.Add(key, items)
		}
		event = domain.SearchCompletedEvent{Query: query, Count: len(items)}
	}
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{event})
}

// LoadMore fetches the next page and appends it to the displayed items.
// It is a no-op without a loader, while the page-0 search is still in
// flight, or while another load-more is in flight. A failure preserves
// everything already displayed.
func (c *Controller[T]) LoadMore() {
	c.mu.Lock()
	if c.disposed || c.loader == nil || c.loading || c.loadingMore {
		c.mu.Unlock()
		return
	}
	c.loadingMore = true
	c.reqID++
	id := c.reqID
	page := c.page + 1
	go c.runLoadMore(id, c.appliedQuery, page, c.loader, c.pageSize)
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.LoadMoreStartedEvent{Page: page}})
}

func (c *Controller[T]) runLoadMore(id uint64, query string, page int, loader Loader[T], pageSize int) {
	items, err := invoke(c.ctx, loader, query, page, pageSize)

	c.mu.Lock()
	if c.disposed || id != c.reqID {
		c.mu.Unlock()
		return
	}
	c.loadingMore = false
	var event domain.DomainEvent
	if err != nil {
		c.err = err
		event = domain.LoadMoreFailedEvent{Page: page, Err: err}
	} else {
		c.err = nil
		// Append onto a fresh slice: the displayed sequence may have been
		// served from the cache and must never be grown in place.
		merged := make([]T, 0, len(c.displayed)+len(items))
		merged = append(merged, c.displayed...)
		merged = append(merged, items...)
		c.displayed = merged
		c.page = page
		c.hasMore = len(items) >= pageSize
		event = domain.PageLoadedEvent{Page: page, Count: len(items), HasMore: c.hasMore}
	}
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{event})
}

// SetLoader replaces the asynchronous source. It never triggers a fetch
// by itself; the next search call will use the new source.
func (c *Controller[T]) SetLoader(loader Loader[T]) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.loader = loader
	c.mu.Unlock()
}

// SetItems replaces the offline collection and reapplies the full
// pipeline. The selection set is deliberately left untouched.
func (c *Controller[T]) SetItems(items []T) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.items = append([]T(nil), items...)
	if c.loader == nil {
		c.reqID++ // a late fetch must not overwrite the new collection
		c.displayed = c.pipelineLocked(c.appliedQuery)
		c.hasMore = false
		c.page = 0
	}
	count := len(items)
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.ItemsChangedEvent{Count: count}})
}

// --- filters and sorting ---

// SetFilter sets or replaces the predicate stored under key. All
// active predicates combine with AND.
func (c *Controller[T]) SetFilter(key string, pred Predicate[T]) {
	c.mu.Lock()
	if c.disposed || pred == nil {
		c.mu.Unlock()
		return
	}
	c.filters[key] = pred
	c.reapplyOfflineLocked()
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.FilterChangedEvent{Key: key}})
}

// RemoveFilter removes the predicate stored under key
func (c *Controller[T]) RemoveFilter(key string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.filters[key]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.filters, key)
	c.reapplyOfflineLocked()
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.FilterChangedEvent{Key: key, Removed: true}})
}

// ClearFilters removes all active filters
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	if c.disposed || len(c.filters) == 0 {
		c.mu.Unlock()
		return
	}
	c.filters = make(map[string]Predicate[T])
	c.reapplyOfflineLocked()
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.FilterChangedEvent{Removed: true}})
}

// SetComparator replaces the sort comparator; nil restores collection
// order. Changing the comparator invalidates the cache because sort
// order is a server concern in online mode.
func (c *Controller[T]) SetComparator(less Less[T]) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.less = less
	c.cache.Purge()
	c.reapplyOfflineLocked()
	c.mu.Unlock()
	c.publish([]domain.DomainEvent{domain.SortChangedEvent{}})
}

// reapplyOfflineLocked re-runs the pipeline for the last applied query.
// Online mode keeps the server-provided page as-is.
func (c *Controller[T]) reapplyOfflineLocked() {
	if c.loader == nil {
		c.displayed = c.pipelineLocked(c.appliedQuery)
	}
}

func (c *Controller[T]) pipelineLocked(query string) []T {
	return applyPipeline(c.items, c.filters, query, c.searchFields,
		c.caseSensitive, c.fuzzyEnabled, c.fuzzyThreshold, c.less)
}

// --- runtime settings ---

// applySettingLocked re-evaluates the current query under the changed
// settings and builds the events to publish. Synchronous re-evaluations
// fold into the settings notification so one logical change publishes
// once; a fetch launched by the change is announced alongside it.
func (c *Controller[T]) applySettingLocked() []domain.DomainEvent {
	events := []domain.DomainEvent{domain.SettingsChangedEvent{}}
	for _, e := range c.evalLocked(c.query) {
		if e.Type() == domain.EventSearchStarted {
			events = append(events, e)
		}
	}
	return events
}

// SetCaseSensitive switches the case policy and re-evaluates the
// current query. Cached results are dropped because cache keys are
// normalized under the active policy.
func (c *Controller[T]) SetCaseSensitive(v bool) {
	c.mu.Lock()
	if c.disposed || c.caseSensitive == v {
		c.mu.Unlock()
		return
	}
	c.caseSensitive = v
	c.cache.Purge()
	events := c.applySettingLocked()
	c.mu.Unlock()
	c.publish(events)
}

// SetFuzzyEnabled toggles fuzzy matching and re-evaluates the current
// query
func (c *Controller[T]) SetFuzzyEnabled(v bool) {
	c.mu.Lock()
	if c.disposed || c.fuzzyEnabled == v {
		c.mu.Unlock()
		return
	}
	c.fuzzyEnabled = v
	events := c.applySettingLocked()
	c.mu.Unlock()
	c.publish(events)
}

// SetFuzzyThreshold changes the minimum fuzzy score and re-evaluates
// the current query. The threshold is clamped to [0, 1].
func (c *Controller[T]) SetFuzzyThreshold(threshold float64) {
	if threshold < 0 {
		threshold = 0
	} else if threshold > 1 {
		threshold = 1
	}
	c.mu.Lock()
	if c.disposed || c.fuzzyThreshold == threshold {
		c.mu.Unlock()
		return
	}
	c.fuzzyThreshold = threshold
	events := c.applySettingLocked()
	c.mu.Unlock()
	c.publish(events)
}

// SetMinQueryLength changes the minimum-length gate and re-evaluates
// the current query, so a previously gated query applies retroactively
// once the minimum drops below its length
func (c *Controller[T]) SetMinQueryLength(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	if c.disposed || c.minQueryLength == n {
		c.mu.Unlock()
		return
	}
	c.minQueryLength = n
	events := c.applySettingLocked()
	c.mu.Unlock()
	c.publish(events)
}

// --- lifecycle ---

// Dispose permanently shuts the controller down. Every later mutating
// call is a silent no-op and no further events are published, including
// from asynchronous completions still in flight.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.stopTimerLocked()
	c.loading = false
	c.loadingMore = false
	c.mu.Unlock()
	c.bus.Publish(domain.DisposedEvent{})
}

func (c *Controller[T]) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// cacheKeyLocked normalizes a query for cache lookup under the active
// case policy
func (c *Controller[T]) cacheKeyLocked(query string) string {
	if c.caseSensitive {
		return query
	}
	return strings.ToLower(query)
}

func (c *Controller[T]) publish(events []domain.DomainEvent) {
	for _, event := range events {
		c.bus.Publish(event)
	}
}

// invoke calls the loader, converting a panic into a PanicError so a
// synchronously throwing source surfaces exactly like a failing one
func invoke[T any](ctx context.Context, loader Loader[T], query string, page, pageSize int) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return loader(ctx, query, page, pageSize)
}
