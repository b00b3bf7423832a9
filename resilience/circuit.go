package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow through normally.
	StateClosed State = iota
	// StateOpen means all calls are rejected until the cooldown elapses.
	StateOpen
	// StateHalfOpen means a single probe call is allowed through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that trips
	// the breaker.
	// Default: 5
	FailureThreshold int

	// Cooldown is how long an open breaker rejects calls before
	// allowing a probe.
	// Default: 30 seconds
	Cooldown time.Duration

	// IsFailure decides whether an error counts against the target.
	// Default: only server and network tags count; caller errors and
	// mandated waits say nothing about the target's health.
	IsFailure func(err error) bool

	// OnStateChange is called when the breaker transitions.
	OnStateChange func(target string, from, to State)
}

func defaultIsFailure(err error) bool {
	if err == nil {
		return false
	}
	// A 404 or a rejected payload is the caller's problem; tripping on
	// those would block valid traffic behind someone else's mistake.
	switch gherrors.TagOf(err) {
	case gherrors.TagServer, gherrors.TagNetwork:
		return true
	}
	return false
}

// Breaker is the circuit breaker for one target identity.
//
// Transitions: Closed→Open when consecutive failures reach the
// threshold; Open→HalfOpen once the cooldown elapses; HalfOpen→Closed
// on probe success; HalfOpen→Open on probe failure, resetting the
// cooldown clock.
type Breaker struct {
	config BreakerConfig
	target string

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	openedAt            time.Time
	probing             bool
	now                 func() time.Time
}

// NewBreaker creates a breaker for the given target identity.
func NewBreaker(target string, config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = defaultIsFailure
	}

	return &Breaker{
		config: config,
		target: target,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Execute runs the operation through the breaker. An open breaker
// rejects immediately with a synthesized server-tagged failure; the
// transport is never invoked.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := op(ctx)
	b.record(err)
	return err
}

// State returns the current breaker state, applying the lazy
// Open→HalfOpen transition when the cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Target returns the target identity this breaker guards.
func (b *Breaker) Target() string {
	return b.target
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateOpen:
		return b.rejectionLocked()
	case StateHalfOpen:
		if b.probing {
			return b.rejectionLocked()
		}
		// Exactly one probe per half-open window.
		b.probing = true
	}
	return nil
}

// rejectionLocked synthesizes the fast-failure for a rejected call.
func (b *Breaker) rejectionLocked() error {
	e := gherrors.Wrap(gherrors.TagServer,
		"circuit breaker open for "+b.target, ErrBreakerOpen)
	e.Retryable = false
	e.RetryAfter = b.config.Cooldown - b.now().Sub(b.openedAt)
	return e
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.config.IsFailure(err)
	from := b.state

	switch b.state {
	case StateClosed:
		if failed {
			b.consecutiveFailures++
			if b.consecutiveFailures >= b.config.FailureThreshold {
				b.state = StateOpen
				b.openedAt = b.now()
			}
		} else {
			b.consecutiveFailures = 0
		}

	case StateHalfOpen:
		b.probing = false
		if failed {
			// Probe failed: back to open with a fresh cooldown clock.
			b.state = StateOpen
			b.openedAt = b.now()
		} else {
			b.state = StateClosed
			b.consecutiveFailures = 0
		}
	}

	if from != b.state && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.target, from, b.state)
	}
}

func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.config.Cooldown {
		b.state = StateHalfOpen
		b.probing = false
		if b.config.OnStateChange != nil {
			b.config.OnStateChange(b.target, StateOpen, StateHalfOpen)
		}
	}
	return b.state
}
