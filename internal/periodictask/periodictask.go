package periodictask

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Option configures a PeriodicTask
type Option func(*PeriodicTask)

// WithRunOnStart runs the first iteration as soon as Start is called instead of
// after one full interval
func WithRunOnStart() Option {
	return func(pt *PeriodicTask) { pt.runOnStart = true }
}

// PeriodicTask runs a function on a fixed interval in a background goroutine.
// A panicking iteration is logged and the loop keeps going.
type PeriodicTask struct {
	name       string
	interval   time.Duration
	task       func(ctx context.Context)
	runOnStart bool
	logger     *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	panics  atomic.Int64
}

// New creates a new PeriodicTask instance
func New(name string, interval time.Duration, task func(ctx context.Context), logger *zap.Logger, opts ...Option) *PeriodicTask {
	pt := &PeriodicTask{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(pt)
	}
	return pt
}

// Start begins executing the task at the specified interval. The task's context is
// cancelled by Stop. A non-positive interval leaves the task stopped.
func (pt *PeriodicTask) Start() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.running {
		return
	}
	if pt.interval <= 0 {
		pt.logger.Info("Periodic task disabled", zap.String("task", pt.name))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pt.cancel = cancel
	pt.running = true

	pt.wg.Add(1)
	go func() {
		defer pt.wg.Done()
		ticker := time.NewTicker(pt.interval)
		defer ticker.Stop()

		if pt.runOnStart {
			pt.runOnce(ctx)
		}

		for {
			select {
			case <-ticker.C:
				pt.runOnce(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	pt.logger.Info("Periodic task started",
		zap.String("task", pt.name),
		zap.Duration("interval", pt.interval))
}

// Stop terminates the periodic task and waits for a running iteration to finish
func (pt *PeriodicTask) Stop() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.running {
		return
	}

	pt.cancel()
	pt.wg.Wait()
	pt.running = false
	pt.logger.Info("Periodic task stopped", zap.String("task", pt.name))
}

// IsRunning returns true if the task is currently running
func (pt *PeriodicTask) IsRunning() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.running
}

// Panics returns how many iterations have panicked since creation
func (pt *PeriodicTask) Panics() int64 {
	return pt.panics.Load()
}

func (pt *PeriodicTask) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			pt.panics.Add(1)
			pt.logger.Error("Periodic task panicked",
				zap.String("task", pt.name),
				zap.Any("panic", r))
		}
	}()
	pt.task(ctx)
}
