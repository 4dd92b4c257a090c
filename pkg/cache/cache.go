// Package cache provides a bounded in-memory cache with per-entry
// expiration and least-recently-used eviction.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is a single cached value with its storage timestamp.
// Entries are never handed out; callers only see the value.
type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
}

// Cache is a size-bounded key/value store with a uniform TTL.
// Reads refresh recency; eviction removes the least-recently-touched
// entry first. Expiry and size bounding are enforced independently:
// an entry past its TTL is never returned, even if it has not been
// evicted by size pressure yet.
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List // front = most recently touched, back = next to evict

	now func() time.Time
}

// New creates a cache holding at most maxSize entries, each valid for ttl.
func New[V any](maxSize int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Set inserts or overwrites the entry for key, stamped with the current
// time and marked most recently used. If the cache exceeds its size
// bound afterwards, least-recently-touched entries are evicted until it
// fits again.
func (c *Cache[V]) Set(key string, value V) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&entry[V]{key: key, value: value, storedAt: c.now()})
	c.items[key] = elem

	for len(c.items) > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// Get returns the fresh value for key. An entry older than the TTL is
// removed and reported as a miss. A hit moves the entry to the front of
// the recency order.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[V])
	if c.expired(e) {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Has reports whether a fresh entry exists for key without touching its
// recency. Expired entries are removed, same as Get.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	if c.expired(elem.Value.(*entry[V])) {
		c.removeElement(elem)
		return false
	}
	return true
}

// Remove deletes the entry for key if present.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the current number of entries, including any that have
// expired but not yet been observed by a read.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}

// removeElement deletes an entry from both the map and the recency list.
// Callers must hold c.mu.
func (c *Cache[V]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(elem)
}
