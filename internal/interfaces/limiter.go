package interfaces

import "context"

//go:generate mockgen -package=mock -source=limiter.go -destination=mock/limiter.go

// Limiter bounds the number of generation operations running at once
type Limiter interface {
	// Run waits for a slot, runs fn and releases the slot on every exit path
	Run(ctx context.Context, fn func(ctx context.Context) error) error
	// InFlight returns the number of slots currently held
	InFlight() int64
	// Capacity returns the configured maximum number of slots
	Capacity() int64
}
