package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

// Config configures the coordinator.
type Config struct {
	// WaitOnLimit blocks callers until the window resets instead of
	// failing fast with a rate-limit error.
	// Default: false
	WaitOnLimit bool

	// MaxWait bounds how long a blocked caller may wait. Waits longer
	// than this fail fast regardless of WaitOnLimit.
	// Default: 60 seconds
	MaxWait time.Duration
}

// Coordinator gates dispatch against per-bucket quota windows and a
// secondary (abuse) cooldown. Each bucket has its own lock so calls
// against unrelated buckets never serialize.
type Coordinator struct {
	config Config
	now    func() time.Time

	cooldownMu    sync.Mutex
	cooldownUntil time.Time

	buckets map[Bucket]*bucketState
}

type bucketState struct {
	mu    sync.Mutex
	state State
}

// NewCoordinator creates a coordinator tracking all known buckets.
func NewCoordinator(config Config) *Coordinator {
	if config.MaxWait <= 0 {
		config.MaxWait = 60 * time.Second
	}

	buckets := make(map[Bucket]*bucketState, len(Buckets))
	for _, b := range Buckets {
		buckets[b] = &bucketState{}
	}

	return &Coordinator{
		config:  config,
		now:     time.Now,
		buckets: buckets,
	}
}

// CheckAndReserve consults the bucket before dispatch. On success it
// consumes one unit of predicted quota and returns a release function
// that undoes the reservation if the call is abandoned before the
// transport is reached. On an exhausted window it either waits
// (bounded by MaxWait, cancellable) or returns a rate-limit error
// carrying the mandated wait.
//
// The secondary cooldown is checked first and takes precedence over
// primary bookkeeping.
func (c *Coordinator) CheckAndReserve(ctx context.Context, bucket Bucket) (func(), error) {
	if err := c.gateSecondary(ctx); err != nil {
		return nil, err
	}

	bs, ok := c.buckets[bucket]
	if !ok {
		return nil, gherrors.Newf(gherrors.TagUnknown, "unknown rate limit bucket %q", bucket)
	}

	for {
		bs.mu.Lock()
		now := c.now()

		// Window rolled over since the last server report.
		if bs.state.Known() && bs.state.Remaining <= 0 && !now.Before(bs.state.ResetAt) {
			bs.state.Remaining = bs.state.Limit
			bs.state.Used = 0
		}

		if !bs.state.Known() || bs.state.Remaining > 0 {
			if bs.state.Known() {
				bs.state.Remaining--
				bs.state.Used++
			}
			bs.mu.Unlock()
			return func() { c.release(bs) }, nil
		}

		wait := bs.state.ResetAt.Sub(now)
		bs.mu.Unlock()

		if !c.config.WaitOnLimit || wait > c.config.MaxWait {
			e := gherrors.Newf(gherrors.TagRateLimit, "%s quota exhausted, resets in %s", bucket, wait.Round(time.Second))
			e.RetryAfter = wait
			return nil, e
		}

		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// release returns one unit of predicted quota. Server-reported values
// overwrite predictions, so a stale release is harmless.
func (c *Coordinator) release(bs *bucketState) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.state.Known() && bs.state.Remaining < bs.state.Limit {
		bs.state.Remaining++
		if bs.state.Used > 0 {
			bs.state.Used--
		}
	}
}

// gateSecondary blocks or fails while the abuse cooldown is active.
func (c *Coordinator) gateSecondary(ctx context.Context) error {
	c.cooldownMu.Lock()
	wait := c.cooldownUntil.Sub(c.now())
	c.cooldownMu.Unlock()

	if wait <= 0 {
		return nil
	}

	if !c.config.WaitOnLimit || wait > c.config.MaxWait {
		e := gherrors.Newf(gherrors.TagSecondaryRateLimit, "secondary rate limit cooldown active for %s", wait.Round(time.Second))
		e.RetryAfter = wait
		return e
	}

	return sleepCtx(ctx, wait)
}

// UpdateFromResponse refreshes bucket state from response headers.
// Server values always win over locally predicted state. A Retry-After
// header additionally arms the secondary cooldown.
func (c *Coordinator) UpdateFromResponse(bucket Bucket, headers http.Header) {
	if retryAfter := headers.Get("Retry-After"); retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			c.SetSecondaryCooldown(time.Duration(secs) * time.Second)
		}
	}

	state, ok := stateFromHeaders(headers)
	if !ok {
		return
	}

	bs, found := c.buckets[bucket]
	if !found {
		return
	}

	bs.mu.Lock()
	bs.state = state
	bs.mu.Unlock()
}

// SetSecondaryCooldown arms the abuse cooldown. A shorter duration
// never truncates an already-armed longer cooldown.
func (c *Coordinator) SetSecondaryCooldown(d time.Duration) {
	if d <= 0 {
		return
	}
	until := c.now().Add(d)

	c.cooldownMu.Lock()
	if until.After(c.cooldownUntil) {
		c.cooldownUntil = until
	}
	c.cooldownMu.Unlock()
}

// Status returns a snapshot of every bucket's window.
func (c *Coordinator) Status() map[Bucket]State {
	out := make(map[Bucket]State, len(c.buckets))
	for name, bs := range c.buckets {
		bs.mu.Lock()
		out[name] = bs.state
		bs.mu.Unlock()
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
