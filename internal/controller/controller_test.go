package controller_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siftview/internal/controller"
	"siftview/internal/eventbus"
)

func stringFields(s string) []string {
	return []string{s}
}

// newOffline builds a zero-debounce offline controller over items
func newOffline(items ...string) *controller.Controller[string] {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.SearchFields = stringFields
	opts.Items = items
	return controller.New(opts)
}

// recorder captures every published event for notification assertions
type recorder struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func record(c *controller.Controller[string]) *recorder {
	r := &recorder{}
	c.Bus().SubscribeAll(func(e eventbus.DomainEvent) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) count(et eventbus.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type() == et {
			n++
		}
	}
	return n
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestOfflineSearchAndClear(t *testing.T) {
	c := newOffline("Apple", "Banana", "Cherry")

	c.SetQuery("App")
	assert.Equal(t, []string{"Apple"}, c.Displayed(), "zero debounce evaluates immediately")
	assert.True(t, c.HasSearched())

	c.ClearQuery()
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, c.Displayed())
	assert.False(t, c.HasSearched())
	assert.Empty(t, c.Query().Text)
}

func TestClearQueryIsIdempotent(t *testing.T) {
	c := newOffline("Apple", "Banana")
	c.SearchNow("App")

	c.ClearQuery()
	first := c.Displayed()
	firstSearched := c.HasSearched()

	c.ClearQuery()
	assert.Equal(t, first, c.Displayed())
	assert.Equal(t, firstSearched, c.HasSearched())
	assert.NoError(t, c.Err())
}

func TestDebounceCoalescesRapidCalls(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 30 * time.Millisecond
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana", "Cherry"}
	c := controller.New(opts)
	r := record(c)

	c.SetQuery("A")
	c.SetQuery("Ap")
	c.SetQuery("App")

	require.Eventually(t, func() bool {
		d := c.Displayed()
		return len(d) == 1 && d[0] == "Apple"
	}, 2*time.Second, 5*time.Millisecond, "the last call wins after the quiet period")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, r.count(eventbus.EventSearchCompleted),
		"intermediate queries never evaluate")
}

func TestSearchNowCancelsPendingDebounce(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 40 * time.Millisecond
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	c.SetQuery("Ban")
	c.SearchNow("App")
	assert.Equal(t, []string{"Apple"}, c.Displayed())

	// The debounced "Ban" evaluation must never fire and override.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []string{"Apple"}, c.Displayed())
	assert.Equal(t, "App", c.AppliedQuery())
}

func TestMinQueryLengthGate(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.MinQueryLength = 3
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	c.SearchNow("Ap")
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed(),
		"a query below the minimum leaves results untouched")
	assert.False(t, c.HasSearched())
	assert.Equal(t, "Ap", c.Query().Text, "the text itself is still recorded")

	c.SearchNow("App")
	assert.Equal(t, []string{"Apple"}, c.Displayed())

	c.SearchNow("")
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed(),
		"the empty query is exempt from the gate")
}

func TestLoweringMinLengthAppliesGatedQuery(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.MinQueryLength = 5
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	c.SearchNow("App")
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed())

	c.SetMinQueryLength(2)
	assert.Equal(t, []string{"Apple"}, c.Displayed(),
		"the gated query applies retroactively once the minimum drops")
}

func TestGateUsesTrimmedLength(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.MinQueryLength = 3
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple"}
	c := controller.New(opts)

	c.SearchNow("  A  ")
	assert.Equal(t, []string{"Apple"}, c.Displayed(), "whitespace does not count toward the minimum")
	assert.False(t, c.HasSearched())
}

func TestFiltersCombineWithAnd(t *testing.T) {
	c := newOffline("Apple", "Apricot", "Banana", "Blueberry")

	c.SetFilter("starts-a", func(s string) bool { return strings.HasPrefix(s, "A") })
	assert.Equal(t, []string{"Apple", "Apricot"}, c.Displayed())

	c.SetFilter("short", func(s string) bool { return len(s) <= 5 })
	assert.Equal(t, []string{"Apple"}, c.Displayed())

	// Re-setting a key replaces its predicate.
	c.SetFilter("short", func(s string) bool { return len(s) <= 7 })
	assert.Equal(t, []string{"Apple", "Apricot"}, c.Displayed())

	c.RemoveFilter("starts-a")
	assert.Equal(t, []string{"Apple", "Apricot", "Banana"}, c.Displayed())

	c.ClearFilters()
	assert.Equal(t, []string{"Apple", "Apricot", "Banana", "Blueberry"}, c.Displayed())
}

func TestFiltersComposeWithQuery(t *testing.T) {
	c := newOffline("Apple", "Apricot", "Banana")

	c.SetFilter("starts-a", func(s string) bool { return strings.HasPrefix(s, "A") })
	c.SearchNow("ap")
	assert.Equal(t, []string{"Apple", "Apricot"}, c.Displayed())

	c.SearchNow("ba")
	assert.Empty(t, c.Displayed(), "filters apply before text matching")
}

func TestComparatorOrdersResults(t *testing.T) {
	c := newOffline("Cherry", "Apple", "Banana")
	assert.Equal(t, []string{"Cherry", "Apple", "Banana"}, c.Displayed(),
		"no comparator preserves collection order")

	c.SetComparator(func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, c.Displayed())

	c.SetComparator(nil)
	assert.Equal(t, []string{"Cherry", "Apple", "Banana"}, c.Displayed())
}

func TestFuzzyOrderingAndComparatorPrecedence(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.FuzzyEnabled = true
	opts.FuzzyThreshold = 0.1
	opts.SearchFields = stringFields
	opts.Items = []string{"A pole", "Apple"}
	c := controller.New(opts)

	c.SearchNow("le")
	assert.Equal(t, []string{"A pole", "Apple"}, c.Displayed(),
		"both contain the query exactly; equal scores keep collection order")

	c.SearchNow("aple")
	d := c.Displayed()
	require.Len(t, d, 2)
	assert.Equal(t, "Apple", d[0], "the tighter subsequence scores higher")

	c.SetComparator(func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"A pole", "Apple"}, c.Displayed(),
		"an explicit comparator overrides score ordering")
}

func TestFuzzyThresholdFiltersLowScores(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.FuzzyEnabled = true
	opts.FuzzyThreshold = 0.5
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	// "apole" only reaches Apple through an edit-distance match, which
	// scores below 0.5.
	c.SearchNow("apole")
	assert.Empty(t, c.Displayed())

	c.SetFuzzyThreshold(0.1)
	assert.Equal(t, []string{"Apple"}, c.Displayed(),
		"lowering the threshold re-evaluates the current query")
}

func TestNilSearchFieldsPassesThrough(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 0
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	c.SearchNow("zzz")
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed(),
		"without a projection, text queries do not filter")
}

func TestCaseSensitivityToggle(t *testing.T) {
	c := newOffline("Apple", "apricot")

	c.SearchNow("ap")
	assert.Equal(t, []string{"Apple", "apricot"}, c.Displayed())

	c.SetCaseSensitive(true)
	assert.Equal(t, []string{"apricot"}, c.Displayed(),
		"toggling case sensitivity re-evaluates the current query")

	c.SetCaseSensitive(false)
	assert.Equal(t, []string{"Apple", "apricot"}, c.Displayed())
}

func TestSetItemsReappliesPipeline(t *testing.T) {
	c := newOffline("Apple", "Banana")
	c.SetFilter("starts-a", func(s string) bool { return strings.HasPrefix(s, "A") })
	c.SearchNow("ap")

	c.SetItems([]string{"Apricot", "Avocado", "Cherry"})
	assert.Equal(t, []string{"Apricot"}, c.Displayed(),
		"the new collection flows through filters and the applied query")
	assert.Equal(t, []string{"Apricot", "Avocado", "Cherry"}, c.Items())
}

func TestReadOnlyViews(t *testing.T) {
	c := newOffline("Apple", "Banana")
	c.Select("Apple")
	c.SetFilter("all", func(string) bool { return true })

	d := c.Displayed()
	d[0] = "mutated"
	assert.Equal(t, "Apple", c.Displayed()[0], "Displayed returns a copy")

	items := c.Items()
	items[1] = "mutated"
	assert.Equal(t, "Banana", c.Items()[1], "Items returns a copy")

	sel := c.Selected()
	sel[0] = "mutated"
	assert.Equal(t, []string{"Apple"}, c.Selected(), "Selected returns a copy")

	filters := c.Filters()
	delete(filters, "all")
	assert.Len(t, c.Filters(), 1, "Filters returns a copy")
}

func TestOneNotificationPerLogicalChange(t *testing.T) {
	c := newOffline("Apple", "Banana")
	r := record(c)

	c.SearchNow("App")
	assert.Equal(t, 1, r.total(), "a synchronous search publishes one event")

	c.SetFilter("all", func(string) bool { return true })
	assert.Equal(t, 2, r.total())

	c.SetComparator(func(a, b string) bool { return a < b })
	assert.Equal(t, 3, r.total())

	c.SetFuzzyEnabled(true)
	assert.Equal(t, 4, r.total(), "a settings change batches its re-evaluation")

	c.SetFuzzyEnabled(true)
	assert.Equal(t, 4, r.total(), "a no-op settings call publishes nothing")
}

func TestDisposeMakesOperationsSilentNoOps(t *testing.T) {
	c := newOffline("Apple", "Banana")
	r := record(c)

	c.Dispose()
	assert.True(t, c.Disposed())
	assert.Equal(t, 1, r.count(eventbus.EventDisposed))

	before := r.total()
	assert.NotPanics(t, func() {
		c.SetQuery("App")
		c.SearchNow("App")
		c.ClearQuery()
		c.SetItems([]string{"x"})
		c.SetFilter("f", func(string) bool { return true })
		c.SetComparator(func(a, b string) bool { return a < b })
		c.Select("Apple")
		c.SelectAll()
		c.LoadMore()
		c.Retry()
		c.Refresh()
		c.SetFuzzyEnabled(true)
		c.Dispose()
	})

	assert.Equal(t, before, r.total(), "no events after disposal")
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed(), "state is frozen")
	assert.Empty(t, c.Selected())
}

func TestDebouncedEvaluationDroppedAfterDispose(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 20 * time.Millisecond
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple", "Banana"}
	c := controller.New(opts)

	c.SetQuery("App")
	c.Dispose()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"Apple", "Banana"}, c.Displayed(),
		"a pending debounce never evaluates after disposal")
}

func TestMatchForHighlighting(t *testing.T) {
	c := newOffline("Apple", "Banana", "Kiwi")

	_, _, ok := c.MatchFor("Apple")
	assert.False(t, ok, "no applied query, nothing to highlight")

	c.SearchNow("app")
	m, field, ok := c.MatchFor("Apple")
	require.True(t, ok)
	assert.Equal(t, 0, field)
	assert.Equal(t, 1.0, m.Score)
	assert.Equal(t, []int{0, 1, 2}, m.Indices)

	m, _, ok = c.MatchFor("Banana")
	require.True(t, ok, "an edit-distance window of the name still matches")
	assert.Less(t, m.Score, 0.6)

	_, _, ok = c.MatchFor("Kiwi")
	assert.False(t, ok, "nothing within tolerance of the query")
}

func TestQueryChangedEventWhileDebouncing(t *testing.T) {
	opts := controller.DefaultOptions[string]()
	opts.DebounceDelay = 50 * time.Millisecond
	opts.SearchFields = stringFields
	opts.Items = []string{"Apple"}
	c := controller.New(opts)
	r := record(c)

	c.SetQuery("Ap")
	assert.Equal(t, 1, r.count(eventbus.EventQueryChanged),
		"the query text change is observable before evaluation")
	assert.Equal(t, "Ap", c.Query().Text)

	require.Eventually(t, func() bool {
		return r.count(eventbus.EventSearchCompleted) == 1
	}, 2*time.Second, 5*time.Millisecond)
}
