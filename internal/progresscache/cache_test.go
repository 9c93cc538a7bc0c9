package progresscache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lentera-go-api/internal/dto"
)

func newTestCache(ttl time.Duration, capacity int, clock *fakeClock) *Cache {
	cache := New(ttl, capacity)
	cache.now = clock.Now
	return cache
}

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

func response(courseID uint) dto.CourseProgressResponse {
	return dto.CourseProgressResponse{Course: dto.CourseRef{ID: courseID, Title: fmt.Sprintf("Course %d", courseID)}}
}

func TestCacheServesValueWithinTTL(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := newTestCache(5*time.Minute, 10, clock)

	cache.Put("1", response(1))

	clock.Advance(5*time.Minute - time.Second)
	got, ok := cache.Get("1")
	require.True(t, ok)
	require.Equal(t, response(1), got)
}

func TestCacheExpiresValueAtTTL(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := newTestCache(5*time.Minute, 10, clock)

	cache.Put("1", response(1))

	clock.Advance(5 * time.Minute)
	_, ok := cache.Get("1")
	require.False(t, ok)
	require.Zero(t, cache.Len())
}

func TestCacheEvictsOldestInsertedAtCapacity(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := newTestCache(time.Hour, 3, clock)

	for i := uint(1); i <= 3; i++ {
		cache.Put(fmt.Sprintf("%d", i), response(i))
		clock.Advance(time.Second)
	}

	cache.Put("4", response(4))

	require.Equal(t, 3, cache.Len())
	_, ok := cache.Get("1")
	require.False(t, ok)
	for i := uint(2); i <= 4; i++ {
		_, ok := cache.Get(fmt.Sprintf("%d", i))
		require.True(t, ok)
	}
}

func TestCachePutRefreshesExistingKey(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := newTestCache(time.Hour, 2, clock)

	cache.Put("1", response(1))
	clock.Advance(time.Second)
	cache.Put("2", response(2))
	clock.Advance(time.Second)

	// Re-inserting key 1 moves it to the back of the eviction order.
	cache.Put("1", response(10))
	clock.Advance(time.Second)
	cache.Put("3", response(3))

	_, ok := cache.Get("2")
	require.False(t, ok)

	got, ok := cache.Get("1")
	require.True(t, ok)
	require.Equal(t, uint(10), got.Course.ID)
}

func TestCachePrunesExpiredBeforeEvicting(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := newTestCache(time.Minute, 2, clock)

	cache.Put("1", response(1))
	clock.Advance(time.Second)
	cache.Put("2", response(2))

	clock.Advance(2 * time.Minute)
	cache.Put("3", response(3))

	require.Equal(t, 1, cache.Len())
	_, ok := cache.Get("3")
	require.True(t, ok)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := New(time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("%d", (worker+j)%60)
				cache.Put(key, response(uint(worker)))
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, cache.Len(), 50)
}
