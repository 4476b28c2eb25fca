package limiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/metrics"
	"go-component-cache/internal/models"
)

// Ensure Limiter implements interfaces.Limiter
var _ interfaces.Limiter = (*Limiter)(nil)

// Limiter admits at most a fixed number of generation operations at a time
type Limiter struct {
	sem              *semaphore.Weighted
	capacity         int64
	inFlight         atomic.Int64
	admissionTimeout time.Duration
	logger           *zap.Logger
}

// Permit is the right to run one operation. Release it exactly once; extra releases are ignored.
type Permit struct {
	limiter *Limiter
	once    sync.Once
}

// New creates a limiter with maxConcurrent slots. A positive admissionTimeout bounds how
// long Acquire waits; zero means wait until the caller's context is done.
func New(maxConcurrent int64, admissionTimeout time.Duration, logger *zap.Logger) (*Limiter, error) {
	if maxConcurrent <= 0 {
		return nil, errors.New("max concurrent generations must be positive")
	}
	if admissionTimeout < 0 {
		return nil, errors.New("admission timeout cannot be negative")
	}

	metrics.UpdateLimiterCapacity(maxConcurrent)

	return &Limiter{
		sem:              semaphore.NewWeighted(maxConcurrent),
		capacity:         maxConcurrent,
		admissionTimeout: admissionTimeout,
		logger:           logger,
	}, nil
}

// Acquire blocks until a slot is free, the admission timeout passes or ctx is done
func (l *Limiter) Acquire(ctx context.Context) (*Permit, error) {
	waitCtx := ctx
	if l.admissionTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.admissionTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("admission cancelled: %w", ctx.Err())
		}
		l.logger.Warn("Generation slot not available in time",
			zap.Duration("admission_timeout", l.admissionTimeout),
			zap.Int64("capacity", l.capacity))
		metrics.RecordAdmissionTimeout()
		return nil, &models.AdmissionTimeoutError{Timeout: l.admissionTimeout}
	}
	metrics.ObserveAdmissionWait(time.Since(start))

	metrics.UpdateLimiterInUse(l.inFlight.Add(1))
	return &Permit{limiter: l}, nil
}

// Release returns the permit's slot
func (l *Limiter) Release(p *Permit) {
	if p == nil || p.limiter != l {
		return
	}
	p.once.Do(func() {
		metrics.UpdateLimiterInUse(l.inFlight.Add(-1))
		l.sem.Release(1)
	})
}

// Run acquires a permit, runs fn and releases the permit however fn returns
func (l *Limiter) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	permit, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	defer l.Release(permit)

	return fn(ctx)
}

// InFlight returns the number of permits currently held
func (l *Limiter) InFlight() int64 {
	return l.inFlight.Load()
}

// Capacity returns the maximum number of concurrent permits
func (l *Limiter) Capacity() int64 {
	return l.capacity
}
