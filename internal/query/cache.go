// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jeranaias/pony-tui/internal/logging"
)

// Cache holds one entry per key. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	idle    *lru.Cache[string, *entry] // nil = unbounded retention
	nextSub uint64

	ctx    context.Context
	cancel context.CancelFunc
	spawn  func(func())
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithIdleEntries bounds how many unsubscribed entries are retained.
// n <= 0 keeps them all.
func WithIdleEntries(n int) Option {
	return func(c *Cache) {
		if n <= 0 {
			c.idle = nil
			return
		}
		idle, err := lru.NewWithEvict[string, *entry](n, c.onIdleEvict)
		if err != nil {
			logging.Warn().Err(err).Int("size", n).Msg("idle cache disabled")
			return
		}
		c.idle = idle
	}
}

// WithSpawn replaces how fetches are started. The default runs each fetch
// on its own goroutine.
func WithSpawn(spawn func(func())) Option {
	return func(c *Cache) {
		c.spawn = spawn
	}
}

// WithClock replaces the clock used for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
		spawn:   func(fn func()) { go fn() },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close cancels the context passed to in-flight fetches. The cache stays
// readable.
func (c *Cache) Close() {
	c.cancel()
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscription is a view's interest in one key.
type Subscription struct {
	cache *Cache
	entry *entry
	id    uint64
	once  sync.Once
}

// Key returns the subscribed key.
func (s *Subscription) Key() Key {
	return s.entry.key
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cache.unsubscribe(s)
	})
}

// Subscribe registers l for changes to key. l may be nil when only the
// subscriber count matters.
func (c *Cache) Subscribe(key Key, l Listener) *Subscription {
	k := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		e = newEntry(key)
		c.entries[k] = e
	}

	c.nextSub++
	id := c.nextSub
	e.listeners[id] = l

	// Count first so the eviction callback sees a live entry.
	if len(e.listeners) == 1 && c.idle != nil {
		c.idle.Remove(k)
	}

	return &Subscription{cache: c, entry: e, id: id}
}

func (c *Cache) unsubscribe(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := s.entry
	delete(e.listeners, s.id)
	if len(e.listeners) > 0 {
		return
	}

	k := e.key.String()
	if c.entries[k] != e {
		return
	}
	if !e.resolved {
		delete(c.entries, k)
		return
	}
	c.retireLocked(k, e)
}

// retireLocked moves an unsubscribed entry into idle retention.
func (c *Cache) retireLocked(k string, e *entry) {
	if c.idle != nil {
		c.idle.Add(k, e)
	}
}

// onIdleEvict runs synchronously from idle cache calls, which are only made
// with c.mu held.
func (c *Cache) onIdleEvict(k string, e *entry) {
	if len(e.listeners) > 0 || c.entries[k] != e {
		return
	}
	delete(c.entries, k)
	e.detached = true
	logging.Trace().Str("key", k).Msg("idle entry evicted")
}

// =============================================================================
// READS
// =============================================================================

type resolveOptions struct {
	enabled bool
}

// ResolveOption changes how Resolve behaves.
type ResolveOption func(*resolveOptions)

// Enabled(false) makes Resolve a no-op: nothing is fetched and no entry is
// created. Used when the key depends on an identifier that is absent.
func Enabled(enabled bool) ResolveOption {
	return func(o *resolveOptions) {
		o.enabled = enabled
	}
}

// Resolve returns the entry for key, starting its first fetch if no fetch
// has ever been issued. An existing entry is returned as-is whatever its
// status; Resolve never revalidates. fetch replaces the entry's stored
// fetch function so later invalidations use the newest closure.
//
// The bool is false when the key is disabled or fetch is nil and no entry
// exists.
func (c *Cache) Resolve(key Key, fetch FetchFunc, opts ...ResolveOption) (Entry, bool) {
	o := resolveOptions{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.enabled {
		return Entry{}, false
	}

	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if ok && e.resolved {
		if fetch != nil {
			e.fetch = fetch
		}
		snap := e.snapshot()
		c.mu.Unlock()
		return snap, true
	}
	if fetch == nil {
		c.mu.Unlock()
		return Entry{}, false
	}
	if !ok {
		e = newEntry(key)
		c.entries[k] = e
	}
	e.fetch = fetch
	e.resolved = true
	start := c.startFetchLocked(e)
	if len(e.listeners) == 0 {
		c.retireLocked(k, e)
	}
	n := e.notificationLocked()
	c.mu.Unlock()

	n.deliver()
	start()
	return n.entry, true
}

// Peek returns the entry for key without side effects.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || !e.resolved {
		return Entry{}, false
	}
	return e.snapshot(), true
}

// Fetch resolves key and waits for its newest in-flight fetch to land. An
// entry that is already settled is returned immediately. The error is
// ctx's error, or the entry's error when the landed fetch failed.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch FetchFunc) (Entry, error) {
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok || !e.resolved {
		if fetch == nil {
			c.mu.Unlock()
			return Entry{}, fmt.Errorf("fetch %s: no fetch function", k)
		}
		if !ok {
			e = newEntry(key)
			c.entries[k] = e
		}
	}
	if fetch != nil {
		e.fetch = fetch
	}
	start := noop
	var n notification
	if !e.resolved {
		e.resolved = true
		start = c.startFetchLocked(e)
		if len(e.listeners) == 0 {
			c.retireLocked(k, e)
		}
		n = e.notificationLocked()
	}

	for {
		f := e.inflight
		if f == nil {
			snap := e.snapshot()
			c.mu.Unlock()
			n.deliver()
			start()
			if snap.Status == StatusError {
				return snap, snap.Err
			}
			return snap, nil
		}
		c.mu.Unlock()
		n.deliver()
		start()
		start = noop
		n = notification{}

		select {
		case <-f.done:
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		}
		c.mu.Lock()
	}
}

// Len returns the number of cached keys, including unresolved ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// =============================================================================
// INVALIDATION
// =============================================================================

// Invalidate marks key stale. With at least one subscriber exactly one new
// fetch is issued, superseding any in flight; with none the entry is
// dropped. Unknown keys are ignored.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	start, n, ok := c.invalidateLocked(key.String())
	c.mu.Unlock()

	if ok {
		n.deliver()
		start()
	}
}

// InvalidatePrefix invalidates every resolved key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix Key) {
	c.mu.Lock()
	var starts []func()
	var pending []notification
	for k, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		if start, n, ok := c.invalidateLocked(k); ok {
			starts = append(starts, start)
			pending = append(pending, n)
		}
	}
	c.mu.Unlock()

	for _, n := range pending {
		n.deliver()
	}
	for _, start := range starts {
		start()
	}
}

func (c *Cache) invalidateLocked(k string) (func(), notification, bool) {
	e, ok := c.entries[k]
	if !ok || !e.resolved {
		return noop, notification{}, false
	}

	if len(e.listeners) == 0 {
		c.dropLocked(k, e)
		logging.Debug().Str("key", k).Msg("invalidated idle entry dropped")
		return noop, notification{}, false
	}

	e.stale = true
	start := c.startFetchLocked(e)
	logging.Debug().Str("key", k).Int("subscribers", len(e.listeners)).Msg("entry invalidated")
	return start, e.notificationLocked(), true
}

// Clear drops every entry. Open subscriptions stop receiving updates.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.detached = true
	}
	c.entries = make(map[string]*entry)
	if c.idle != nil {
		c.idle.Purge()
	}
}

func (c *Cache) dropLocked(k string, e *entry) {
	delete(c.entries, k)
	e.detached = true
	if c.idle != nil {
		c.idle.Remove(k)
	}
}

// =============================================================================
// FETCHING
// =============================================================================

func noop() {}

// startFetchLocked issues a new fetch for e, superseding any in flight.
// The returned function launches it and must be called after c.mu is
// released.
func (c *Cache) startFetchLocked(e *entry) func() {
	if e.fetch == nil {
		return noop
	}
	e.gen++
	f := &flight{gen: e.gen, done: make(chan struct{})}
	e.inflight = f
	e.version++

	fetch := e.fetch
	return func() {
		c.spawn(func() {
			c.runFetch(e, f, fetch)
		})
	}
}

func (c *Cache) runFetch(e *entry, f *flight, fetch FetchFunc) {
	start := c.now()
	data, err := safeCall(c.ctx, fetch)

	c.mu.Lock()
	defer close(f.done)

	if f.gen != e.gen {
		c.mu.Unlock()
		logging.Debug().
			Str("key", e.key.String()).
			Uint64("generation", f.gen).
			Msg("superseded fetch discarded")
		return
	}

	e.inflight = nil
	e.fetchedAt = c.now()
	e.version++
	if err != nil {
		e.err = err
		e.status = StatusError
	} else {
		e.data = data
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.stale = false
	}
	n := e.notificationLocked()
	c.mu.Unlock()

	ev := logging.Debug()
	if err != nil {
		ev = logging.Warn().Err(err)
	}
	ev.Str("key", e.key.String()).
		Dur("duration", c.now().Sub(start)).
		Msg("fetch landed")

	n.deliver()
}

// safeCall runs fn, turning a panic into an error.
func safeCall(ctx context.Context, fn FetchFunc) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return fn(ctx)
}
