package ttl

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/models"
)

// Ensure Cache implements interfaces.Cache
var _ interfaces.Cache[string, []byte] = (*Cache[string, []byte])(nil)

// Reason tells why an entry left the cache
type Reason int

const (
	ReasonEvicted Reason = iota
	ReasonExpired
	ReasonInvalidated
)

func (r Reason) String() string {
	switch r {
	case ReasonEvicted:
		return "evicted"
	case ReasonExpired:
		return "expired"
	case ReasonInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// Option configures a Cache
type Option func(*options)

type options struct {
	now      func() time.Time
	onRemove func(Reason)
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRemovalListener registers fn to be called after entries are evicted, expire or
// are invalidated. It runs outside the cache lock.
func WithRemovalListener(fn func(Reason)) Option {
	return func(o *options) { o.onRemove = fn }
}

// entry keeps the value and its timestamps in one place
type entry[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time
	expiresAt time.Time
}

// Cache is a size-bounded in-memory cache with a single TTL for every entry.
// When full it evicts the oldest inserted entry (FIFO); Get does not change the order.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	items   map[K]*list.Element
	order   *list.List // front is the oldest insertion, and therefore the earliest expiry
	maxSize int
	ttl     time.Duration
	opts    options

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates a cache holding at most maxSize entries, each living for ttl
func New[K comparable, V any](maxSize int, ttl time.Duration, opts ...Option) (*Cache[K, V], error) {
	if maxSize <= 0 {
		return nil, errors.New("max size must be positive")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[K, V]{
		items:   make(map[K]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		opts:    o,
	}, nil
}

// Get returns the value for key if it is present and not expired.
// An expired entry it finds is removed.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	now := c.opts.now()

	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return zero, false
	}

	e := el.Value.(*entry[K, V])
	if !now.Before(e.expiresAt) {
		c.removeElementLocked(el)
		c.expirations++
		c.misses++
		c.mu.Unlock()
		c.notify(ReasonExpired, 1)
		return zero, false
	}

	c.hits++
	value := e.value
	c.mu.Unlock()
	return value, true
}

// Peek returns the value for key if it is present and not expired. It does not
// touch the hit and miss counters and leaves expired entries for Get or Purge.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	var zero V
	now := c.opts.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if !now.Before(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. Overwriting counts as a new insertion. Inserting a new key
// into a full cache first drops expired entries and then, if still full, evicts exactly
// one entry, the oldest inserted. All of it happens under one lock.
func (c *Cache[K, V]) Put(key K, value V) {
	now := c.opts.now()
	var expired, evicted int

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.createdAt = now
		e.expiresAt = now.Add(c.ttl)
		c.order.MoveToBack(el)
		c.mu.Unlock()
		return
	}

	if len(c.items) >= c.maxSize {
		expired = c.purgeLocked(now)
		if len(c.items) >= c.maxSize {
			c.removeElementLocked(c.order.Front())
			c.evictions++
			evicted = 1
		}
	}

	c.items[key] = c.order.PushBack(&entry[K, V]{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	})
	c.mu.Unlock()

	c.notify(ReasonExpired, expired)
	c.notify(ReasonEvicted, evicted)
}

// Invalidate removes key if present
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	el, ok := c.items[key]
	if ok {
		c.removeElementLocked(el)
	}
	c.mu.Unlock()

	if ok {
		c.notify(ReasonInvalidated, 1)
	}
}

// Len returns the number of entries that have not expired
func (c *Cache[K, V]) Len() int {
	now := c.opts.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) - c.countExpiredLocked(now)
}

// Purge removes every expired entry and returns how many were removed
func (c *Cache[K, V]) Purge() int {
	now := c.opts.now()

	c.mu.Lock()
	n := c.purgeLocked(now)
	c.mu.Unlock()

	c.notify(ReasonExpired, n)
	return n
}

// Clear drops all entries. Counters are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]*list.Element, c.maxSize)
	c.order.Init()
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters
func (c *Cache[K, V]) Stats() models.CacheStats {
	now := c.opts.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CacheStats{
		Size:        len(c.items) - c.countExpiredLocked(now),
		Capacity:    c.maxSize,
		TTL:         c.ttl,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

// TTL returns the configured time-to-live
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// purgeLocked walks from the oldest entry and stops at the first live one,
// since every entry shares the same ttl.
func (c *Cache[K, V]) purgeLocked(now time.Time) int {
	n := 0
	for el := c.order.Front(); el != nil; {
		e := el.Value.(*entry[K, V])
		if now.Before(e.expiresAt) {
			break
		}
		next := el.Next()
		c.removeElementLocked(el)
		n++
		el = next
	}
	c.expirations += uint64(n)
	return n
}

func (c *Cache[K, V]) countExpiredLocked(now time.Time) int {
	n := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		if now.Before(el.Value.(*entry[K, V]).expiresAt) {
			break
		}
		n++
	}
	return n
}

// removeElementLocked drops el from both the index and the order list
func (c *Cache[K, V]) removeElementLocked(el *list.Element) {
	e := c.order.Remove(el).(*entry[K, V])
	delete(c.items, e.key)
}

func (c *Cache[K, V]) notify(reason Reason, n int) {
	if c.opts.onRemove == nil {
		return
	}
	for i := 0; i < n; i++ {
		c.opts.onRemove(reason)
	}
}
