// Package dashboard implements the candidate and recruiter dashboards on top
// of a refreshable list cache.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/recruitportal/internal/adapters/http/portalapi"
	"github.com/okian/recruitportal/internal/domain/sequence"
	"github.com/okian/recruitportal/pkg/metrics"
)

// ErrStale marks a refresh superseded by a newer one; the cache was not touched.
var ErrStale = errors.New("stale refresh discarded")

// Cache holds the last successfully fetched list for one view. A failed
// refresh keeps the previous data but hides it until the next success.
type Cache[T any] struct {
	name string
	seq  sequence.Tracker

	mu          sync.RWMutex
	items       []T
	loaded      bool
	failed      bool
	invalid     bool
	refreshedAt time.Time
}

// NewCache creates an empty cache. name labels metrics and sequence tokens.
func NewCache[T any](name string, seq sequence.Tracker) *Cache[T] {
	if seq == nil {
		seq = sequence.New()
	}
	return &Cache[T]{name: name, seq: seq, invalid: true}
}

// Refresh fetches a new list. Only the newest refresh may replace the data.
func (c *Cache[T]) Refresh(ctx context.Context, fetch func(context.Context) ([]T, error)) portalapi.Result[[]T] {
	tok := c.seq.Issue(c.name)
	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.Latest(tok) {
		return portalapi.Fail[[]T](ErrStale)
	}
	if err != nil {
		c.failed = true
		metrics.RecordCacheRefresh(c.name, false, len(c.items))
		return portalapi.Fail[[]T](err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	c.failed = false
	c.invalid = false
	c.refreshedAt = time.Now()
	metrics.RecordCacheRefresh(c.name, true, len(items))
	return portalapi.Ok(c.copyLocked())
}

// Items returns a copy of the retained data, including after a failed refresh.
func (c *Cache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

// Visible returns what the view should show: nothing after a failed refresh.
func (c *Cache[T]) Visible() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.failed {
		return []T{}
	}
	return c.copyLocked()
}

// Invalidate marks the data out of date; it stays readable until the next refresh.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalid = true
}

// Status describes the cache for rendering.
type Status struct {
	Loaded      bool
	Failed      bool
	Invalid     bool
	Count       int
	RefreshedAt time.Time
}

// Status returns the current cache status.
func (c *Cache[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		Loaded:      c.loaded,
		Failed:      c.failed,
		Invalid:     c.invalid,
		Count:       len(c.items),
		RefreshedAt: c.refreshedAt,
	}
}

func (c *Cache[T]) copyLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}
