// Package progresscache holds the in-process result cache for course
// progress aggregates. Entries expire after a fixed TTL and the cache is
// bounded by a FIFO capacity limit; expired entries are dropped lazily on
// the next Get or Put that touches them, there is no background sweeper.
package progresscache

import (
	"sync"
	"time"

	"github.com/noah-isme/lentera-go-api/internal/dto"
)

type entry struct {
	value      dto.CourseProgressResponse
	insertedAt time.Time
}

// Cache is a mutex-guarded TTL cache keyed by course identifier. It is
// scoped to a single process and starts cold after a restart.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry
	order    []string
	now      func() time.Time
}

// New constructs a cache with the given TTL and capacity. Non-positive
// values fall back to 5 minutes and 100 entries.
func New(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if capacity <= 0 {
		capacity = 100
	}

	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		order:    make([]string, 0, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value for key. A value older than the TTL counts
// as a miss and is discarded.
func (c *Cache) Get(key string) (dto.CourseProgressResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.entries[key]
	if !ok {
		return dto.CourseProgressResponse{}, false
	}

	if c.expired(stored, c.now()) {
		c.remove(key)
		return dto.CourseProgressResponse{}, false
	}

	return stored.value, true
}

// Put stores value under key, recording the insertion time. When the cache
// is full the single oldest-inserted entry is evicted first (FIFO, not LRU).
func (c *Cache) Put(key string, value dto.CourseProgressResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneExpired(now)

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	} else if len(c.entries) >= c.capacity {
		c.remove(c.order[0])
	}

	c.entries[key] = entry{value: value, insertedAt: now}
	c.order = append(c.order, key)
}

// Len reports the number of live entries, counting entries that have
// expired but not yet been touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) expired(stored entry, now time.Time) bool {
	return now.Sub(stored.insertedAt) >= c.ttl
}

func (c *Cache) pruneExpired(now time.Time) {
	for _, key := range append([]string(nil), c.order...) {
		stored, ok := c.entries[key]
		if ok && c.expired(stored, now) {
			c.remove(key)
		}
	}
}

func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, existing := range c.order {
		if existing == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
