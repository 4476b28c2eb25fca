package interfaces

import (
	"go-component-cache/internal/models"
)

// Cache is a bounded, expiring key-value store safe for concurrent use
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)  // returns value and found flag; expired entries are not found
	Peek(key K) (V, bool) // like Get but leaves hit/miss counters untouched
	Put(key K, value V)
	Invalidate(key K)
	Len() int
	Stats() models.CacheStats
}
