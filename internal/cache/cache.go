// Package cache memoizes backend reads by key, coalesces concurrent fetches
// of the same key and invalidates entries by group.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of entries kept before least recently used ones
// are evicted.
const DefaultSize = 512

// Observer receives cache events. Every method must be safe for concurrent use.
type Observer interface {
	CacheHit(group string)
	CacheMiss(group string)
	CacheCoalesced(group string)
	CacheFetchError(group string)
}

// Status describes one key for rendering stale or failed data.
type Status struct {
	HasValue  bool
	Value     any
	FetchedAt time.Time
	Stale     bool
	Fetching  bool
	Err       error
}

type entry struct {
	value     any
	hasValue  bool
	fetchedAt time.Time
	stale     bool
	err       error
	// flight that last wrote value; older flights never overwrite it.
	writer uint64
}

type flight struct {
	id          uint64
	epoch       uint64
	invalidated bool
}

// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  *lru.Cache[Key, *entry]
	inflight map[Key]*flight
	nextID   uint64
	epoch    uint64

	sf       singleflight.Group
	observer Observer
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports hits, misses, coalesced waits and fetch errors.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// WithClock overrides time.Now for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache holding at most size entries. A size below one uses
// DefaultSize.
func New(size int, opts ...Option) *Cache {
	if size < 1 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, *entry](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	c := &Cache{
		entries:  entries,
		inflight: make(map[Key]*flight),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached value for key if it is present and fresh. Otherwise
// it joins the in-flight fetch for key or starts one. The fetch runs detached
// from ctx: a caller whose ctx ends gets ctx.Err() while the fetch still
// completes and populates the cache. A failed fetch leaves any previous value
// in place and is reported to every waiter.
func Read[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.entries.Get(key); ok && e.hasValue && !e.stale {
		c.mu.Unlock()
		c.observer.CacheHit(key.Group)
		if v, ok := e.value.(T); ok {
			return v, nil
		}
		return zero, nil
	}
	fl, joined := c.inflight[key]
	if !joined {
		c.nextID++
		fl = &flight{id: c.nextID, epoch: c.epoch}
		c.inflight[key] = fl
	}
	c.mu.Unlock()

	if joined {
		c.observer.CacheCoalesced(key.Group)
	} else {
		c.observer.CacheMiss(key.Group)
	}

	detached := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key.String()+"#"+strconv.FormatUint(fl.id, 10), func() (any, error) {
		v, err := fetch(detached)
		c.complete(key, fl, v, err)
		return v, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache) complete(key Key, fl *flight, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.inflight[key]; ok && cur == fl {
		delete(c.inflight, key)
	}
	if fl.epoch != c.epoch {
		// Cleared while in flight.
		return
	}

	e, ok := c.entries.Peek(key)
	if !ok {
		e = &entry{}
	}
	if fl.id < e.writer {
		return
	}
	if err != nil {
		e.err = err
		c.entries.Add(key, e)
		c.observer.CacheFetchError(key.Group)
		return
	}
	e.value = v
	e.hasValue = true
	e.fetchedAt = c.now()
	e.stale = fl.invalidated
	e.err = nil
	e.writer = fl.id
	c.entries.Add(key, e)
}

// Invalidate marks every entry in the given groups stale and detaches their
// in-flight fetches, so the next Read starts a new fetch. Detached fetches
// still store their result, marked stale. Invalidate performs no I/O.
func (c *Cache) Invalidate(groups ...string) {
	if len(groups) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range c.entries.Keys() {
		if !matchesAny(k, groups) {
			continue
		}
		if e, ok := c.entries.Peek(k); ok {
			e.stale = true
		}
	}
	for k, fl := range c.inflight {
		if matchesAny(k, groups) {
			fl.invalidated = true
			delete(c.inflight, k)
		}
	}
}

// Status reports the state of key without affecting recency or starting a
// fetch.
func (c *Cache) Status(key Key) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s Status
	if e, ok := c.entries.Peek(key); ok {
		s.HasValue = e.hasValue
		s.Value = e.value
		s.FetchedAt = e.fetchedAt
		s.Stale = e.stale
		s.Err = e.err
	}
	_, s.Fetching = c.inflight[key]
	return s
}

// Clear drops every entry. Fetches in flight complete for their waiters but
// are not stored.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	for k := range c.inflight {
		delete(c.inflight, k)
	}
	c.epoch++
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)        {}
func (nopObserver) CacheMiss(string)       {}
func (nopObserver) CacheCoalesced(string)  {}
func (nopObserver) CacheFetchError(string) {}
