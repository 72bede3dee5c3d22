// Package cache memoizes search result pages and suggestion lists. Entries
// are dropped least-recently-used first once the cache is full, and lazily
// once their TTL passes.
package cache

import (
	"sync"
	"time"
)

// Config sizes a Cache.
type Config struct {
	// MaxSize caps the number of entries. Zero or less means no cap.
	MaxSize int
	// TTL is how long an entry stays valid after its last Put. Zero
	// disables expiry.
	TTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Stats is a snapshot of cache counters. Counters survive Clear.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	if n := s.Hits + s.Misses; n > 0 {
		return float64(s.Hits) / float64(n)
	}
	return 0
}

type node[K comparable, V any] struct {
	key        K
	value      V
	deadline   time.Time
	prev, next *node[K, V]
}

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cfg     Config
	nodes   map[K]*node[K, V]
	ring    node[K, V] // sentinel: ring.next is the most recent entry
	stats   Stats
	onEvict func(K, V)
}

// New returns an empty cache.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Cache[K, V]{cfg: cfg, nodes: make(map[K]*node[K, V])}
	c.ring.prev, c.ring.next = &c.ring, &c.ring
	return c
}

// OnEvict registers fn to run, under the cache lock, whenever an entry is
// pushed out by capacity, expiry or Remove.
func (c *Cache[K, V]) OnEvict(fn func(key K, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the live value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.nodes[key]
	if ok && !n.deadline.IsZero() && c.cfg.Now().After(n.deadline) {
		c.drop(n)
		c.stats.Expired++
		ok = false
	}
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.unlink(n)
	c.pushFront(n)
	c.stats.Hits++
	return n.value, true
}

// Put stores value under key and restarts its TTL.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var deadline time.Time
	if c.cfg.TTL > 0 {
		deadline = c.cfg.Now().Add(c.cfg.TTL)
	}
	if n, ok := c.nodes[key]; ok {
		n.value, n.deadline = value, deadline
		c.unlink(n)
		c.pushFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value, deadline: deadline}
	c.nodes[key] = n
	c.pushFront(n)
	if c.cfg.MaxSize > 0 && len(c.nodes) > c.cfg.MaxSize {
		c.drop(c.ring.prev)
		c.stats.Evictions++
	}
}

// Remove deletes key if present.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.nodes[key]; ok {
		c.drop(n)
	}
}

// Clear empties the cache without running the eviction hook.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.nodes)
	c.ring.prev, c.ring.next = &c.ring, &c.ring
}

// Len counts stored entries, including expired ones not yet looked up.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// Stats returns the current counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size, s.MaxSize = len(c.nodes), c.cfg.MaxSize
	return s
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev, n.next = &c.ring, c.ring.next
	c.ring.next.prev = n
	c.ring.next = n
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *Cache[K, V]) drop(n *node[K, V]) {
	c.unlink(n)
	delete(c.nodes, n.key)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
}
