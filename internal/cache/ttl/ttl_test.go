package ttl

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestNew_InvalidArguments(t *testing.T) {
	_, err := New[string, int](0, time.Second)
	assert.Error(t, err)

	_, err = New[string, int](10, 0)
	assert.Error(t, err)

	c, err := New[string, int](10, time.Second)
	assert.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, time.Second, c.TTL())
}

func TestCache_PutGet(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, string](10, time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", "1")

	val, found := c.Get("a")
	assert.True(t, found)
	assert.Equal(t, "1", val)

	_, found = c.Get("missing")
	assert.False(t, found)

	c.Put("a", "2")
	val, found = c.Get("a")
	assert.True(t, found)
	assert.Equal(t, "2", val)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictionAndExpiry(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, found := c.Get("a")
	assert.False(t, found, "a should have been evicted")

	val, found := c.Get("c")
	assert.True(t, found)
	assert.Equal(t, 3, val)

	clock.Advance(1100 * time.Millisecond)

	_, found = c.Get("c")
	assert.False(t, found, "c should have expired")
}

func TestCache_ExpiresExactlyAtTTL(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)

	clock.Advance(999 * time.Millisecond)
	_, found := c.Get("a")
	assert.True(t, found)

	clock.Advance(time.Millisecond)
	_, found = c.Get("a")
	assert.False(t, found)
}

func TestCache_GetDoesNotRefreshOrder(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	// Reading a must not save it from eviction
	_, found := c.Get("a")
	assert.True(t, found)

	c.Put("c", 3)

	_, found = c.Get("a")
	assert.False(t, found)
	_, found = c.Get("b")
	assert.True(t, found)
}

func TestCache_OverwriteCountsAsNewInsertion(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)
	clock.Advance(500 * time.Millisecond)
	c.Put("b", 2)
	c.Put("a", 10)

	// b is now the oldest insertion
	c.Put("c", 3)
	_, found := c.Get("b")
	assert.False(t, found)

	// a's timestamp was refreshed by the overwrite
	clock.Advance(700 * time.Millisecond)
	val, found := c.Get("a")
	assert.True(t, found)
	assert.Equal(t, 10, val)
}

func TestCache_PutIntoFullCachePrefersExpired(t *testing.T) {
	clock := newFakeClock()
	var evicted, expired atomic.Int64
	c, err := New[string, int](3, time.Second, WithClock(clock.Now), WithRemovalListener(func(r Reason) {
		switch r {
		case ReasonEvicted:
			evicted.Add(1)
		case ReasonExpired:
			expired.Add(1)
		}
	}))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	clock.Advance(600 * time.Millisecond)
	c.Put("c", 3)
	clock.Advance(600 * time.Millisecond)

	// a and b are expired, so no live entry has to be evicted
	c.Put("d", 4)

	assert.Equal(t, int64(0), evicted.Load())
	assert.Equal(t, int64(2), expired.Load())

	_, found := c.Get("c")
	assert.True(t, found)
	_, found = c.Get("d")
	assert.True(t, found)
	assert.Equal(t, 2, c.Len())
}

func TestCache_Invalidate(t *testing.T) {
	var invalidated atomic.Int64
	c, err := New[string, int](2, time.Minute, WithRemovalListener(func(r Reason) {
		if r == ReasonInvalidated {
			invalidated.Add(1)
		}
	}))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Invalidate("a")
	c.Invalidate("a")
	c.Invalidate("never-there")

	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(1), invalidated.Load())
}

func TestCache_LenSkipsExpired(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](5, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)
	clock.Advance(600 * time.Millisecond)
	c.Put("b", 2)
	assert.Equal(t, 2, c.Len())

	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 1, c.Len())

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Purge())
}

func TestCache_ClearAndStats(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Get("b")
	c.Get("a")

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 2, stats.Capacity)
	assert.Equal(t, time.Second, stats.TTL)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Evictions)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, found := c.Get("b")
	assert.False(t, found)
}

func TestCache_PeekLeavesCountersAlone(t *testing.T) {
	clock := newFakeClock()
	c, err := New[string, int](2, time.Second, WithClock(clock.Now))
	require.NoError(t, err)

	_, found := c.Peek("a")
	assert.False(t, found)

	c.Put("a", 1)
	value, found := c.Peek("a")
	assert.True(t, found)
	assert.Equal(t, 1, value)

	clock.Advance(time.Second)
	_, found = c.Peek("a")
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, uint64(0), stats.Expirations)
}

func TestCache_ValueTypeIsCopied(t *testing.T) {
	type payload struct{ N int }
	c, err := New[string, payload](2, time.Minute)
	require.NoError(t, err)

	c.Put("a", payload{N: 1})
	got, _ := c.Get("a")
	got.N = 99

	again, _ := c.Get("a")
	assert.Equal(t, 1, again.N)
}

func TestCache_ConcurrentPutNeverExceedsMaxSize(t *testing.T) {
	const maxSize = 16
	c, err := New[string, int](maxSize, 50*time.Millisecond)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var overflow atomic.Int64
	for w := 0; w < 32; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				key := fmt.Sprintf("k%d", r.Intn(100))
				switch r.Intn(4) {
				case 0, 1:
					c.Put(key, i)
				case 2:
					c.Get(key)
				default:
					c.Invalidate(key)
				}
				if i%50 == 0 {
					c.Purge()
				}
				if n := c.Len(); n > maxSize {
					overflow.Add(1)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	assert.Equal(t, int64(0), overflow.Load())
	assert.LessOrEqual(t, c.Len(), maxSize)

	c.mu.Lock()
	assert.Equal(t, len(c.items), c.order.Len(), "index and order list diverged")
	c.mu.Unlock()
}
