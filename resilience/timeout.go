package resilience

import (
	"context"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

// Timeout bounds every wrapped operation so no dispatch blocks
// indefinitely. Exceeding the bound yields a timeout-classified
// network error, not a hang.
type Timeout struct {
	limit time.Duration
}

// NewTimeout creates a timeout wrapper. limit <= 0 selects the default
// of 30 seconds.
func NewTimeout(limit time.Duration) *Timeout {
	if limit <= 0 {
		limit = 30 * time.Second
	}
	return &Timeout{limit: limit}
}

// Execute runs the operation under the bound.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			e := gherrors.Wrap(gherrors.TagNetwork, "operation exceeded its time bound", ErrTimeout)
			return e
		}
		return ctx.Err()
	}
}

// Limit returns the configured bound.
func (t *Timeout) Limit() time.Duration {
	return t.limit
}
