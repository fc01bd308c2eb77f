// Package cache provides a bounded LRU cache shared by render workers.
//
// The renderer keeps glyph outlines here so a glyph seen by one worker is
// not decoded again by the next. Values are shared between goroutines and
// must be treated as read-only once stored.
package cache

import (
	"sync"
	"sync/atomic"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Cache is a thread-safe LRU cache holding at most Capacity entries.
// A Cache must not be copied after first use.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	order    list[K, V]
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache holding at most capacity entries. A capacity below 1
// is treated as 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var v V
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.order.moveToFront(e)
		v = e.value
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return v, false
	}
	c.hits.Add(1)
	return v, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.moveToFront(e)
		return
	}
	if c.order.len >= c.capacity {
		if old := c.order.popBack(); old != nil {
			delete(c.entries, old.key)
		}
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.order.pushFront(e)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len
}

// Stats returns a snapshot of the cache.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	n := c.order.len
	c.mu.Unlock()
	return Stats{
		Len:      n,
		Capacity: c.capacity,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}
