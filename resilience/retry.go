package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

// RetryPolicy configures retry behavior. Retryability is decided by
// the classified error's tag, never by string matching.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, including the
	// first call.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 1 second
	BaseDelay time.Duration

	// Multiplier grows the delay each attempt.
	// Default: 2.0
	Multiplier float64

	// MaxDelay caps the computed delay. A server-mandated RetryAfter
	// is never capped.
	// Default: 30 seconds
	MaxDelay time.Duration

	// Jitter adds up to 25% randomness to computed delays.
	// Default: true (disabled only via NoJitter)
	NoJitter bool

	// RetryableTags is the set of error tags worth retrying. Empty
	// selects the classification defaults: every tag whose default
	// verdict is retryable.
	RetryableTags []gherrors.Tag

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry executes operations under a RetryPolicy.
type Retry struct {
	policy    RetryPolicy
	retryable map[gherrors.Tag]bool
}

// NewRetry creates a retry executor.
func NewRetry(policy RetryPolicy) *Retry {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = time.Second
	}
	if policy.Multiplier <= 0 {
		policy.Multiplier = 2.0
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 30 * time.Second
	}

	var retryable map[gherrors.Tag]bool
	if len(policy.RetryableTags) > 0 {
		retryable = make(map[gherrors.Tag]bool, len(policy.RetryableTags))
		for _, tag := range policy.RetryableTags {
			retryable[tag] = true
		}
	}

	return &Retry{policy: policy, retryable: retryable}
}

// Execute runs the operation, retrying while the classified error is
// in the retryable set. Exhausting attempts returns the last observed
// failure verbatim; the root cause is never wrapped away.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.shouldRetry(err) {
			return err
		}
		if attempt >= r.policy.MaxAttempts {
			break
		}

		delay := r.delayFor(attempt, err)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func (r *Retry) shouldRetry(err error) bool {
	if r.retryable != nil {
		return r.retryable[gherrors.TagOf(err)]
	}
	return gherrors.IsRetryable(err)
}

// delayFor computes the backoff for the given attempt. A rate-limit
// error's server-mandated wait overrides the computed delay when
// larger.
func (r *Retry) delayFor(attempt int, err error) time.Duration {
	delay := time.Duration(float64(r.policy.BaseDelay) * math.Pow(r.policy.Multiplier, float64(attempt-1)))
	if delay > r.policy.MaxDelay {
		delay = r.policy.MaxDelay
	}

	// Delays under 4ns have no jitter range to draw from.
	if quarter := int64(delay / 4); !r.policy.NoJitter && quarter > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(quarter))
	}

	if mandated := gherrors.RetryAfterOf(err); mandated > delay {
		delay = mandated
	}
	return delay
}

// Policy returns the retry policy.
func (r *Retry) Policy() RetryPolicy {
	return r.policy
}
