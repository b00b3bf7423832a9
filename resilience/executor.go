package resilience

import "context"

// Executor composes the resilience patterns for one dispatch path.
// Every transport call in the client flows through an Executor so
// retry and breaker policy is uniform instead of scattered per call
// site.
type Executor struct {
	breakers *BreakerSet
	retry    *Retry
	timeout  *Timeout
	bulkhead *Bulkhead
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithBreakers adds per-target circuit breaking.
func WithBreakers(s *BreakerSet) ExecutorOption {
	return func(e *Executor) { e.breakers = s }
}

// WithRetry adds retry with backoff.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithTimeout bounds each individual attempt.
func WithTimeout(t *Timeout) ExecutorOption {
	return func(e *Executor) { e.timeout = t }
}

// WithBulkhead caps concurrent in-flight calls.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// Execute runs the operation for the given target identity.
//
// Composition, outside in: bulkhead → retry → breaker → timeout → op.
// The breaker sits inside the retry loop so every attempt consults it
// and an open breaker fails the attempt without touching the
// transport; the timeout bounds each individual attempt.
func (e *Executor) Execute(ctx context.Context, target string, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.breakers != nil {
		inner := execute
		breaker := e.breakers.For(target)
		execute = func(ctx context.Context) error {
			return breaker.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// BreakerState reports the breaker state for a target, or StateClosed
// when breaking is not configured or the target is untracked.
func (e *Executor) BreakerState(target string) State {
	if e.breakers == nil {
		return StateClosed
	}
	return e.breakers.For(target).State()
}
