package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{})

	if b.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
	if b.config.FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %d, want 5", b.config.FailureThreshold)
	}
	if b.config.Cooldown != 30*time.Second {
		t.Errorf("Cooldown = %v, want 30s", b.config.Cooldown)
	}
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 3, Cooldown: time.Minute})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	for i := 0; i < 2; i++ {
		_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })
		if b.State() != StateClosed {
			t.Fatalf("after %d failures state = %v, want closed", i+1, b.State())
		}
	}

	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })
	if b.State() != StateOpen {
		t.Fatalf("after 3 failures state = %v, want open", b.State())
	}

	// The very next call fails fast without invoking the operation.
	err := b.Execute(context.Background(), func(context.Context) error {
		t.Error("operation invoked while breaker open")
		return nil
	})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("rejection error = %v, want ErrBreakerOpen in chain", err)
	}
	if gherrors.TagOf(err) != gherrors.TagServer {
		t.Errorf("rejection tag = %v, want server", gherrors.TagOf(err))
	}
	if gherrors.IsRetryable(err) {
		t.Error("breaker rejection must not be retryable")
	}
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 2})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })
	_ = b.Execute(context.Background(), func(context.Context) error { return nil })
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (success reset the streak)", b.State())
	}
}

func TestBreaker_RateLimitNotAFailure(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1})
	rlErr := gherrors.New(gherrors.TagRateLimit, "wait")

	_ = b.Execute(context.Background(), func(context.Context) error { return rlErr })
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (rate limits say nothing about target health)", b.State())
	}
}

func TestBreaker_CallerErrorsNotAFailure(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1})

	callerTags := []gherrors.Tag{
		gherrors.TagNotFound,
		gherrors.TagValidation,
		gherrors.TagAuthentication,
		gherrors.TagAuthorization,
	}
	for _, tag := range callerTags {
		failure := gherrors.New(tag, "nope")
		_ = b.Execute(context.Background(), func(context.Context) error { return failure })
		if b.State() != StateClosed {
			t.Errorf("after %v state = %v, want closed (caller errors say nothing about target health)", tag, b.State())
		}
	}
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	base := time.Now()
	b.now = func() time.Time { return base }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	if b.State() != StateHalfOpen {
		t.Errorf("state after cooldown = %v, want half-open", b.State())
	}
}

func TestBreaker_ProbeSuccessCloses(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	base := time.Now()
	b.now = func() time.Time { return base }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := b.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state after successful probe = %v, want closed", b.State())
	}
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	base := time.Now()
	b.now = func() time.Time { return base }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	if b.State() != StateOpen {
		t.Fatalf("state after failed probe = %v, want open", b.State())
	}

	// Cooldown clock was reset by the failed probe.
	b.now = func() time.Time { return base.Add(2*time.Minute + 30*time.Second) }
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open (cooldown clock reset by probe failure)", b.State())
	}
}

func TestBreaker_SingleProbeInHalfOpen(t *testing.T) {
	b := NewBreaker("api.github.com", BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	base := time.Now()
	b.now = func() time.Time { return base }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })
	b.now = func() time.Time { return base.Add(2 * time.Minute) }

	// Claim the probe slot without completing it.
	if err := b.allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}

	// A second concurrent call must be rejected.
	err := b.Execute(context.Background(), func(context.Context) error {
		t.Error("second call invoked during half-open probe")
		return nil
	})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("second half-open call error = %v, want ErrBreakerOpen", err)
	}
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	b := NewBreaker("api.github.com", BreakerConfig{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
		OnStateChange: func(target string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	base := time.Now()
	b.now = func() time.Time { return base }
	_ = b.Execute(context.Background(), func(context.Context) error { return serverErr })

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	_ = b.Execute(context.Background(), func(context.Context) error { return nil })

	want := []string{"closed>open", "open>half-open", "half-open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %q, want %q", i, transitions[i], want[i])
		}
	}
}
