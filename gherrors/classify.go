package gherrors

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TransportResult is the raw material the classifier works from: an
// HTTP status with headers and body. A network-level fault has no
// TransportResult and is passed as an error instead.
type TransportResult struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// tokenExpirySignatures are body substrings GitHub uses for expired
// credentials on a 401.
var tokenExpirySignatures = []string{
	"token expired",
	"token is expired",
	"expired oauth",
	"credentials expired",
}

// secondarySignatures are body substrings indicating abuse-detection
// (secondary) rate limiting on a 403.
var secondarySignatures = []string{
	"secondary rate limit",
	"abuse detection",
	"abuse-detection",
}

// Classify maps a raw transport result onto the error taxonomy. It is
// pure: no clock reads beyond now, no I/O, no shared state.
//
// Rule order follows the failure-handling contract: network faults,
// then 401 (expired vs. plain), then 403 rate limits, then 404, 422,
// 5xx, and finally the conservative unknown fallback.
func Classify(result *TransportResult, netErr error) *Error {
	return classifyAt(result, netErr, time.Now())
}

func classifyAt(result *TransportResult, netErr error, now time.Time) *Error {
	if result == nil {
		e := Wrap(TagNetwork, "request failed before a response was received", netErr)
		if netErr != nil {
			e.Message = netErr.Error()
		}
		return e
	}

	body := strings.ToLower(string(result.Body))

	switch {
	case result.Status == http.StatusUnauthorized:
		if matchesAny(body, tokenExpirySignatures) {
			return statusError(TagTokenExpired, result.Status, "authentication token has expired")
		}
		return statusError(TagAuthentication, result.Status, "authentication failed")

	case result.Status == http.StatusForbidden:
		if matchesAny(body, secondarySignatures) || result.Headers.Get("Retry-After") != "" {
			e := statusError(TagSecondaryRateLimit, result.Status, "secondary rate limit triggered")
			e.RetryAfter = retryAfterFromHeader(result.Headers, now)
			return e
		}
		if rateLimitExhausted(result.Headers) {
			e := statusError(TagRateLimit, result.Status, "primary rate limit exhausted")
			e.RetryAfter = retryAfterFromReset(result.Headers, now)
			return e
		}
		return statusError(TagAuthorization, result.Status, "access to the resource is forbidden")

	case result.Status == http.StatusNotFound:
		return statusError(TagNotFound, result.Status, "resource not found")

	case result.Status == http.StatusUnprocessableEntity:
		return statusError(TagValidation, result.Status, "request was understood but failed validation")

	case result.Status >= 500:
		return statusError(TagServer, result.Status, fmt.Sprintf("server error %d", result.Status))

	default:
		return statusError(TagUnknown, result.Status, fmt.Sprintf("unexpected status %d", result.Status))
	}
}

func statusError(tag Tag, status int, message string) *Error {
	e := New(tag, message)
	e.Status = status
	return e
}

func matchesAny(body string, signatures []string) bool {
	for _, sig := range signatures {
		if strings.Contains(body, sig) {
			return true
		}
	}
	return false
}

// rateLimitExhausted reports whether the primary quota headers show an
// exhausted window.
func rateLimitExhausted(headers http.Header) bool {
	remain := headers.Get("X-RateLimit-Remaining")
	if remain == "" {
		return false
	}
	n, err := strconv.Atoi(remain)
	return err == nil && n <= 0
}

// retryAfterFromReset computes the mandated wait from the epoch-second
// X-RateLimit-Reset header.
func retryAfterFromReset(headers http.Header, now time.Time) time.Duration {
	resetStr := headers.Get("X-RateLimit-Reset")
	if resetStr == "" {
		return 0
	}
	epoch, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return 0
	}
	wait := time.Unix(epoch, 0).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// retryAfterFromHeader reads a Retry-After value, accepting both
// delta-seconds and HTTP-date forms.
func retryAfterFromHeader(headers http.Header, now time.Time) time.Duration {
	v := headers.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		wait := at.Sub(now)
		if wait < 0 {
			return 0
		}
		return wait
	}
	return 0
}
