package outcome

import "context"

// Async is a pending computation that resolves to a terminal Outcome.
// It is resolved at most once; Await may be called any number of times
// from any goroutine.
type Async[T any] struct {
	done   chan struct{}
	result Outcome[T]
}

// Go starts fn in a new goroutine and returns the pending outcome.
// The supplied context is passed through to fn; cancelling it is fn's
// signal to stop early and resolve with a failure.
func Go[T any](ctx context.Context, fn func(context.Context) Outcome[T]) *Async[T] {
	a := &Async[T]{done: make(chan struct{})}
	go func() {
		a.result = fn(ctx)
		close(a.done)
	}()
	return a
}

// Resolved returns an already-terminal Async wrapping o.
func Resolved[T any](o Outcome[T]) *Async[T] {
	a := &Async[T]{done: make(chan struct{}), result: o}
	close(a.done)
	return a
}

// Await blocks until the computation resolves or ctx is done. A
// cancelled wait yields a failure carrying ctx.Err(); the underlying
// computation keeps running and its result is preserved for later
// Await calls.
func (a *Async[T]) Await(ctx context.Context) Outcome[T] {
	select {
	case <-a.done:
		return a.result
	case <-ctx.Done():
		return Fail[T](ctx.Err())
	}
}

// Done reports whether the computation has resolved without blocking.
func (a *Async[T]) Done() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// MapAsync transforms the eventual success value.
func MapAsync[T, U any](ctx context.Context, a *Async[T], f func(T) U) *Async[U] {
	return Go(ctx, func(ctx context.Context) Outcome[U] {
		return Map(a.Await(ctx), f)
	})
}

// ThenAsync chains an outcome-returning continuation onto the eventual
// success value, short-circuiting on failure.
func ThenAsync[T, U any](ctx context.Context, a *Async[T], f func(context.Context, T) Outcome[U]) *Async[U] {
	return Go(ctx, func(ctx context.Context) Outcome[U] {
		return FlatMap(a.Await(ctx), func(v T) Outcome[U] {
			return f(ctx, v)
		})
	})
}
