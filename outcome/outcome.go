package outcome

import "fmt"

// Outcome holds exactly one of a success value or a failure error.
// The zero value is a failure with a nil error; construct with Succeed
// or Fail. Outcomes are immutable once constructed.
type Outcome[T any] struct {
	value T
	err   error
	ok    bool
}

// Succeed constructs a successful outcome.
func Succeed[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Fail constructs a failed outcome.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// From converts a conventional (value, error) pair into an Outcome.
func From[T any](value T, err error) Outcome[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Succeed(value)
}

// IsSuccess reports whether the outcome holds a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.ok
}

// IsFailure reports whether the outcome holds an error.
func (o Outcome[T]) IsFailure() bool {
	return !o.ok
}

// Value returns the success value and whether it is present.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.ok
}

// Error returns the failure error, or nil for a success.
func (o Outcome[T]) Error() error {
	if o.ok {
		return nil
	}
	return o.err
}

// Get returns the outcome as a conventional (value, error) pair.
func (o Outcome[T]) Get() (T, error) {
	if o.ok {
		return o.value, nil
	}
	var zero T
	return zero, o.err
}

// Match invokes exactly one of the handlers. It is the sanctioned way
// to branch on an outcome.
func (o Outcome[T]) Match(onSuccess func(T), onFailure func(error)) {
	if o.ok {
		if onSuccess != nil {
			onSuccess(o.value)
		}
		return
	}
	if onFailure != nil {
		onFailure(o.err)
	}
}

// Unwrap returns the success value. It panics when called on a failure;
// doing so is programmer misuse, never an expected remote-API failure.
func (o Outcome[T]) Unwrap() T {
	if !o.ok {
		panic(fmt.Sprintf("outcome: Unwrap called on failure: %v", o.err))
	}
	return o.value
}

// UnwrapOr returns the success value, or fallback on a failure.
func (o Outcome[T]) UnwrapOr(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// Map transforms the success value. A failure passes through unchanged.
func Map[T, U any](o Outcome[T], f func(T) U) Outcome[U] {
	if !o.ok {
		return Fail[U](o.err)
	}
	return Succeed(f(o.value))
}

// FlatMap chains an outcome-returning operation, short-circuiting on
// the first failure.
func FlatMap[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if !o.ok {
		return Fail[U](o.err)
	}
	return f(o.value)
}

// MapError transforms only the failure error. A success passes through
// unchanged.
func MapError[T any](o Outcome[T], f func(error) error) Outcome[T] {
	if o.ok {
		return o
	}
	return Fail[T](f(o.err))
}
