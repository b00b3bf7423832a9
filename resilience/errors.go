package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrBreakerOpen is returned when the circuit breaker rejects a
	// call without invoking the transport.
	ErrBreakerOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an operation exceeds its bound.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrConcurrencyLimit is returned when the in-flight call limit
	// is reached and waiting is disallowed.
	ErrConcurrencyLimit = errors.New("resilience: concurrent call limit reached")
)
