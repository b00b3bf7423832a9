package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BjornMelin/contribux-sub005/gherrors"
)

func TestExecutor_Empty(t *testing.T) {
	e := NewExecutor()

	err := e.Execute(context.Background(), "api.github.com", func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestExecutor_OpenBreakerStopsRetry(t *testing.T) {
	e := NewExecutor(
		WithBreakers(NewBreakerSet(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})),
		WithRetry(NewRetry(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, NoJitter: true})),
	)

	calls := 0
	serverErr := gherrors.New(gherrors.TagServer, "boom")

	// First call trips the breaker on its first attempt; the breaker
	// rejection is non-retryable, so the retry loop stops immediately.
	err := e.Execute(context.Background(), "api.github.com", func(context.Context) error {
		calls++
		return serverErr
	})
	if err == nil {
		t.Fatal("Execute() error = nil, want failure")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (breaker open after first failure)", calls)
	}

	// Subsequent calls fail fast without invoking the operation.
	err = e.Execute(context.Background(), "api.github.com", func(context.Context) error {
		t.Error("operation invoked while breaker open")
		return nil
	})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("error = %v, want ErrBreakerOpen in chain", err)
	}
}

func TestExecutor_TargetsIsolated(t *testing.T) {
	e := NewExecutor(
		WithBreakers(NewBreakerSet(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})),
	)

	_ = e.Execute(context.Background(), "bad.example.com", func(context.Context) error {
		return gherrors.New(gherrors.TagServer, "boom")
	})

	if e.BreakerState("bad.example.com") != StateOpen {
		t.Error("failing target breaker should be open")
	}
	if e.BreakerState("api.github.com") != StateClosed {
		t.Error("healthy target breaker should stay closed")
	}

	err := e.Execute(context.Background(), "api.github.com", func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("healthy target call error = %v", err)
	}
}

func TestExecutor_RetriesTransientThenSucceeds(t *testing.T) {
	e := NewExecutor(
		WithBreakers(NewBreakerSet(BreakerConfig{FailureThreshold: 10})),
		WithRetry(NewRetry(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, NoJitter: true})),
	)

	calls := 0
	err := e.Execute(context.Background(), "api.github.com", func(context.Context) error {
		calls++
		if calls < 2 {
			return gherrors.New(gherrors.TagNetwork, "flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestBulkhead_CapsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})

	gate := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func(context.Context) error {
				<-gate
				return nil
			})
		}()
	}

	// Give the two holders time to acquire.
	time.Sleep(20 * time.Millisecond)

	err := b.Execute(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, ErrConcurrencyLimit) {
		t.Errorf("third call error = %v, want ErrConcurrencyLimit", err)
	}

	close(gate)
	wg.Wait()

	if err := b.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("call after release error = %v", err)
	}
}

func TestTimeout_BoundsOperation(t *testing.T) {
	timeout := NewTimeout(20 * time.Millisecond)

	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout in chain", err)
	}
	if gherrors.TagOf(err) != gherrors.TagNetwork {
		t.Errorf("tag = %v, want network (timeout-classified)", gherrors.TagOf(err))
	}
}

func TestTimeout_FastOperationPasses(t *testing.T) {
	timeout := NewTimeout(time.Second)

	if err := timeout.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestBreakerSet_LazyCreation(t *testing.T) {
	s := NewBreakerSet(BreakerConfig{})

	if len(s.States()) != 0 {
		t.Error("new set should track no targets")
	}

	b1 := s.For("a")
	b2 := s.For("a")
	if b1 != b2 {
		t.Error("For should return the same breaker for the same target")
	}
	if len(s.States()) != 1 {
		t.Errorf("tracked targets = %d, want 1", len(s.States()))
	}
}
