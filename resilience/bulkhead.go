package resilience

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// BulkheadConfig configures the in-flight call limiter.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of in-flight transport calls.
	// Default: 10
	MaxConcurrent int

	// MaxWait is how long a caller may wait for a slot.
	// Default: 0 (fail immediately when full)
	MaxWait time.Duration
}

// Bulkhead caps concurrent transport calls so a slow remote cannot
// exhaust the caller's goroutine budget.
type Bulkhead struct {
	config BulkheadConfig
	sem    *semaphore.Weighted
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
	}
}

// Execute runs the operation while holding a slot. A full bulkhead
// fails with ErrConcurrencyLimit after at most MaxWait.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if b.sem.TryAcquire(1) {
		defer b.sem.Release(1)
		return op(ctx)
	}

	if b.config.MaxWait <= 0 {
		return ErrConcurrencyLimit
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.config.MaxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrConcurrencyLimit
	}
	defer b.sem.Release(1)

	return op(ctx)
}
