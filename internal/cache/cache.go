// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync"
	"time"
)

// entry is a node of the recency list.
type entry struct {
	key       Key
	id        string
	value     interface{}
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// Cache is a thread-safe result cache keyed by ordered tuples. Entries expire
// after a TTL and the least recently used entry is evicted once capacity is
// reached.
//
// Prefix operations (Entries, InvalidatePrefix) scan every entry; the cache
// is sized for one process serving a handful of sessions, so a linear scan is
// acceptable.
type Cache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	items    map[string]*entry

	// head.next is the most recently used, tail.prev the least recently used
	head *entry
	tail *entry

	stats Stats
	now   func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	Size          int
	Capacity      int
	LastCleanup   time.Time
}

// Item is a key/value pair returned by Entries.
type Item struct {
	Key   Key
	Value interface{}
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now. Tests use it to expire entries without
// sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithCleanupInterval starts a background goroutine removing expired entries
// at the given interval. Stop it with Close.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.stop = make(chan struct{})
			go c.cleanupLoop(d)
		}
	}
}

// New creates a cache holding at most capacity entries, each living ttl
// unless set with SetWithTTL.
//
//	c := cache.New(5000, 5*time.Minute, cache.WithCleanupInterval(time.Minute))
//	defer c.Close()
//	c.Set(cache.NewKey("admins", "", "", "1"), page)
func New(capacity int, ttl time.Duration, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = 5000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry),
		head:     &entry{},
		tail:     &entry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	c.stats.LastCleanup = time.Now()

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it has not expired. Hits move
// the entry to the front of the recency list.
func (c *Cache) Get(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key.String()]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if c.expired(e) {
		c.removeEntry(e)
		c.stats.Evictions++
		c.stats.Misses++
		return nil, false
	}

	c.moveToFront(e)
	c.stats.Hits++
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key Key, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache) SetWithTTL(key Key, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.String()
	expiresAt := c.now().Add(ttl)

	if e, ok := c.items[id]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{
		key:       NewKey(key...),
		id:        id,
		value:     value,
		expiresAt: expiresAt,
	}
	c.addToFront(e)
	c.items[id] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Update replaces the value under key with fn(old) and keeps its expiry and
// recency position. It reports whether a live entry was found.
func (c *Cache) Update(key Key, fn func(interface{}) interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key.String()]
	if !ok || c.expired(e) {
		return false
	}
	e.value = fn(e.value)
	return true
}

// Entries returns the live entries whose key starts with prefix, most
// recently used first.
func (c *Cache) Entries(prefix Key) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Item
	for e := c.head.next; e != c.tail; e = e.next {
		if c.expired(e) || !e.key.HasPrefix(prefix) {
			continue
		}
		out = append(out, Item{Key: NewKey(e.key...), Value: e.value})
	}
	return out
}

// Delete removes key. It reports whether an entry was removed.
func (c *Cache) Delete(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key.String()]; ok {
		c.removeEntry(e)
		c.stats.Invalidations++
		return true
	}
	return false
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns how many were removed. The next read of such a key refetches.
func (c *Cache) InvalidatePrefix(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.head.next; e != c.tail; {
		next := e.next
		if e.key.HasPrefix(prefix) {
			c.removeEntry(e)
			removed++
		}
		e = next
	}
	c.stats.Invalidations += int64(removed)
	return removed
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = len(c.items)
	s.Capacity = c.capacity
	return s
}

// HitRate returns the hit rate as a percentage (0-100).
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Close stops the cleanup goroutine, if any. It is safe to call twice.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
		}
	})
}

// Cleanup removes every expired entry and returns how many were removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.head.next; e != c.tail; {
		next := e.next
		if c.expired(e) {
			c.removeEntry(e)
			removed++
		}
		e = next
	}
	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = c.now()
	return removed
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) expired(e *entry) bool {
	return c.now().After(e.expiresAt)
}

func (c *Cache) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Cache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (c *Cache) moveToFront(e *entry) {
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache) removeEntry(e *entry) {
	c.unlink(e)
	delete(c.items, e.id)
}

func (c *Cache) evictOldest() {
	if oldest := c.tail.prev; oldest != c.head {
		c.removeEntry(oldest)
		c.stats.Evictions++
	}
}
