package coalescer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/metrics"
	"go-component-cache/internal/models"
)

// GenerateFunc produces the value for a key on a cache miss
type GenerateFunc[V any] func(ctx context.Context, key models.CacheKey) (V, error)

// Coalescer runs at most one generation per key at a time. Callers that miss the
// cache while a generation for their key is pending wait for its outcome.
type Coalescer[V any] struct {
	cache   interfaces.Cache[models.CacheKey, V]
	limiter interfaces.Limiter
	group   singleflight.Group
	pending atomic.Int64
	logger  *zap.Logger
}

type flightResult[V any] struct {
	value  V
	cached bool
}

// New creates a coalescer in front of cache; generations are admitted through limiter
func New[V any](cache interfaces.Cache[models.CacheKey, V], limiter interfaces.Limiter, logger *zap.Logger) *Coalescer[V] {
	return &Coalescer[V]{
		cache:   cache,
		limiter: limiter,
		logger:  logger,
	}
}

// GetOrGenerate returns the cached value for key, or generates, stores and returns it.
// The boolean reports whether the value came from the cache.
//
// Cancelling ctx only stops this caller from waiting; the shared generation keeps
// running for the other waiters and still populates the cache.
func (c *Coalescer[V]) GetOrGenerate(ctx context.Context, key models.CacheKey, generate GenerateFunc[V]) (V, bool, error) {
	var zero V

	if v, ok := c.cache.Get(key); ok {
		return v, true, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(key), func() (interface{}, error) {
		return c.run(flightCtx, key, generate)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RecordCoalescedRequest()
		}
		if res.Err != nil {
			return zero, false, res.Err
		}
		fr := res.Val.(flightResult[V])
		return fr.value, fr.cached, nil
	case <-ctx.Done():
		c.logger.Debug("Caller stopped waiting for pending generation",
			zap.String("key", string(key)),
			zap.Error(ctx.Err()))
		return zero, false, ctx.Err()
	}
}

// Pending returns the number of generations currently in flight
func (c *Coalescer[V]) Pending() int {
	return int(c.pending.Load())
}

// run is executed once per flight. The value is stored before the flight is
// forgotten, so a caller arriving afterwards finds it in the cache.
func (c *Coalescer[V]) run(ctx context.Context, key models.CacheKey, generate GenerateFunc[V]) (flightResult[V], error) {
	metrics.UpdatePendingGenerations(c.pending.Add(1))
	defer func() { metrics.UpdatePendingGenerations(c.pending.Add(-1)) }()

	// A previous flight may have finished between the caller's lookup and DoChan.
	// The caller's Get already counted this request, so Peek keeps stats at one per request.
	if v, ok := c.cache.Peek(key); ok {
		return flightResult[V]{value: v, cached: true}, nil
	}

	var value V
	err := c.limiter.Run(ctx, func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("generator panicked: %v", r)
			}
		}()
		value, err = generate(ctx, key)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrAdmissionTimeout) {
			c.logger.Warn("Generation not admitted", zap.String("key", string(key)), zap.Error(err))
			return flightResult[V]{}, err
		}
		c.logger.Error("Generation failed", zap.String("key", string(key)), zap.Error(err))
		return flightResult[V]{}, &models.GenerationError{Key: key, Err: err}
	}

	c.cache.Put(key, value)
	return flightResult[V]{value: value}, nil
}
