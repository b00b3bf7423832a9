package gherrors

import (
	"errors"
	"fmt"
	"time"
)

// Tag identifies the kind of GitHub API failure. The set is closed:
// the classifier maps every transport result onto exactly one tag.
type Tag int

const (
	// TagUnknown is the conservative fallback for unrecognized failures.
	TagUnknown Tag = iota
	// TagNotFound is a 404: a valid negative result.
	TagNotFound
	// TagAuthentication is a 401: credentials missing or rejected.
	TagAuthentication
	// TagAuthorization is a 403 without rate-limit involvement.
	TagAuthorization
	// TagValidation is a 422: the request payload is invalid.
	TagValidation
	// TagRateLimit is a primary rate-limit exhaustion.
	TagRateLimit
	// TagSecondaryRateLimit is an abuse-detection (secondary) limit.
	TagSecondaryRateLimit
	// TagNetwork is a connection-level fault with no HTTP status.
	TagNetwork
	// TagServer is a 5xx response.
	TagServer
	// TagTokenExpired is a 401 whose body matches an expiry signature.
	TagTokenExpired
)

// String returns the string representation of the tag.
func (t Tag) String() string {
	switch t {
	case TagNotFound:
		return "not_found"
	case TagAuthentication:
		return "authentication"
	case TagAuthorization:
		return "authorization"
	case TagValidation:
		return "validation"
	case TagRateLimit:
		return "rate_limit"
	case TagSecondaryRateLimit:
		return "secondary_rate_limit"
	case TagNetwork:
		return "network"
	case TagServer:
		return "server"
	case TagTokenExpired:
		return "token_expired"
	default:
		return "unknown"
	}
}

// Severity grades how serious a failure is for the caller.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Strategy names a suggested recovery action.
type Strategy int

const (
	StrategyNone Strategy = iota
	// StrategyRetry means retry with backoff.
	StrategyRetry
	// StrategyWait means wait out a mandated cooldown, then retry.
	StrategyWait
	// StrategyReauthenticate means obtain fresh credentials.
	StrategyReauthenticate
	// StrategyFixRequest means the caller must change the request.
	StrategyFixRequest
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyRetry:
		return "retry"
	case StrategyWait:
		return "wait"
	case StrategyReauthenticate:
		return "reauthenticate"
	case StrategyFixRequest:
		return "fix_request"
	default:
		return "none"
	}
}

// Recovery describes whether and how a failure can be recovered.
type Recovery struct {
	CanRecover bool
	Strategy   Strategy
}

// tagDefaults holds the per-tag default retryability, severity and
// recovery. The tag uniquely determines these; instances may override.
var tagDefaults = map[Tag]struct {
	retryable bool
	severity  Severity
	recovery  Recovery
}{
	TagNotFound:           {false, SeverityLow, Recovery{false, StrategyNone}},
	TagAuthentication:     {false, SeverityCritical, Recovery{true, StrategyReauthenticate}},
	TagAuthorization:      {false, SeverityHigh, Recovery{false, StrategyNone}},
	TagValidation:         {false, SeverityMedium, Recovery{true, StrategyFixRequest}},
	TagRateLimit:          {true, SeverityMedium, Recovery{true, StrategyWait}},
	TagSecondaryRateLimit: {true, SeverityHigh, Recovery{true, StrategyWait}},
	TagNetwork:            {true, SeverityMedium, Recovery{true, StrategyRetry}},
	TagServer:             {true, SeverityHigh, Recovery{true, StrategyRetry}},
	TagTokenExpired:       {false, SeverityCritical, Recovery{true, StrategyReauthenticate}},
	TagUnknown:            {false, SeverityHigh, Recovery{false, StrategyNone}},
}

// Error is the classified GitHub API failure that crosses component
// boundaries. It is immutable once constructed.
type Error struct {
	// Tag is the machine-checkable failure kind.
	Tag Tag

	// Message is the human-readable description.
	Message string

	// Status is the HTTP status code, or 0 for network-level faults.
	Status int

	// RetryAfter is the server-mandated wait for rate-limit failures.
	RetryAfter time.Duration

	// Severity grades the failure. Defaults from the tag.
	Severity Severity

	// Retryable reports whether a retry may succeed. Defaults from the tag.
	Retryable bool

	// Recovery is the suggested recovery action. Defaults from the tag.
	Recovery Recovery

	// Err is the underlying cause, if any.
	Err error
}

// New constructs an Error with the tag's default retryability,
// severity and recovery.
func New(tag Tag, message string) *Error {
	d := tagDefaults[tag]
	return &Error{
		Tag:       tag,
		Message:   message,
		Severity:  d.severity,
		Retryable: d.retryable,
		Recovery:  d.recovery,
	}
}

// Newf constructs an Error with a formatted message.
func Newf(tag Tag, format string, args ...any) *Error {
	return New(tag, fmt.Sprintf(format, args...))
}

// Wrap constructs an Error wrapping an underlying cause.
func Wrap(tag Tag, message string, err error) *Error {
	e := New(tag, message)
	e.Err = err
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("github: %s (status %d): %s", e.Tag, e.Status, e.Message)
	}
	return fmt.Sprintf("github: %s: %s", e.Tag, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches against another *Error by tag, so callers can write
// errors.Is(err, &Error{Tag: TagNotFound}).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Tag == other.Tag
}

// TagOf extracts the tag from an error chain. Unclassified errors
// report TagUnknown.
func TagOf(err error) Tag {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag
	}
	return TagUnknown
}

// IsRetryable reports the retryability verdict of an error chain.
// Unclassified errors are not retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// RetryAfterOf extracts the server-mandated wait from an error chain,
// or zero when none applies.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
