package source

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrFlaky is returned by a flaky remote on its injected failures
var ErrFlaky = errors.New("simulated network failure")

// Remote simulates a paged server over an in-memory collection. Calls
// are rate limited and take a small jittered amount of time, so the
// controller's debounce, supersession and load-more guards are
// exercised the way a real network source would.
type Remote struct {
	mu      sync.Mutex
	entries []Entry
	limiter *rate.Limiter
	latency time.Duration

	flaky bool
	calls int
}

// NewRemote creates a simulated remote over entries. With flaky set,
// every fifth call fails so the error and retry paths can be exercised
// interactively.
func NewRemote(entries []Entry, flaky bool) *Remote {
	return &Remote{
		entries: append([]Entry(nil), entries...),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 3),
		latency: 30 * time.Millisecond,
		flaky:   flaky,
	}
}

// Load fetches one page of matching entries. It has the controller's
// Loader signature.
func (r *Remote) Load(ctx context.Context, query string, page, pageSize int) ([]Entry, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	time.Sleep(r.latency + time.Duration(rand.Intn(20))*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.flaky && r.calls%5 == 1 {
		return nil, ErrFlaky
	}

	matched := r.match(query)
	start := page * pageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// match is the "server side" filter: case-insensitive substring over
// name and category
func (r *Remote) match(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.entries
	}
	var out []Entry
	for _, e := range r.entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}

// Calls returns how many loads the remote has served
func (r *Remote) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
