package models

import "time"

// CacheStats is a point-in-time snapshot of a TTL cache
type CacheStats struct {
	Size        int           `json:"size"`
	Capacity    int           `json:"capacity"`
	TTL         time.Duration `json:"ttl"`
	Hits        uint64        `json:"hits"`
	Misses      uint64        `json:"misses"`
	Evictions   uint64        `json:"evictions"`
	Expirations uint64        `json:"expirations"`
}

// ServiceStats combines cache, coalescer and limiter state of the component service
type ServiceStats struct {
	Cache              CacheStats `json:"cache"`
	PendingGenerations int        `json:"pending_generations"`
	GenerationsInUse   int64      `json:"generations_in_use"`
	GenerationsLimit   int64      `json:"generations_limit"`
}
