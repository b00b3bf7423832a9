package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Bucket identifies an independently-tracked rate-limit pool.
type Bucket string

const (
	// BucketCore covers most REST endpoints.
	BucketCore Bucket = "core"
	// BucketSearch covers search endpoints, which have a much smaller window.
	BucketSearch Bucket = "search"
	// BucketGraphQL covers the GraphQL endpoint.
	BucketGraphQL Bucket = "graphql"
)

// Buckets lists all tracked buckets.
var Buckets = []Bucket{BucketCore, BucketSearch, BucketGraphQL}

// State is the quota window for one bucket. Remaining never goes
// negative; once it reaches zero all new calls against the bucket wait
// until ResetAt or fail fast.
type State struct {
	// Limit is the total quota for the window. Zero means the server
	// has not reported values for this bucket yet.
	Limit int

	// Remaining is the quota left in the current window.
	Remaining int

	// Used is the quota consumed in the current window.
	Used int

	// ResetAt is when the window rolls over.
	ResetAt time.Time
}

// Known reports whether the server has ever reported this window.
func (s State) Known() bool {
	return s.Limit > 0
}

// Exhausted reports whether the window has no quota left as of now.
func (s State) Exhausted(now time.Time) bool {
	return s.Known() && s.Remaining <= 0 && now.Before(s.ResetAt)
}

// stateFromHeaders parses the standard quota headers. Returns false
// when the response carries no quota information.
func stateFromHeaders(headers http.Header) (State, bool) {
	limitStr := headers.Get("X-RateLimit-Limit")
	remainStr := headers.Get("X-RateLimit-Remaining")
	if limitStr == "" || remainStr == "" {
		return State{}, false
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return State{}, false
	}
	remaining, err := strconv.Atoi(remainStr)
	if err != nil {
		return State{}, false
	}
	if remaining < 0 {
		remaining = 0
	}

	s := State{Limit: limit, Remaining: remaining}

	if resetStr := headers.Get("X-RateLimit-Reset"); resetStr != "" {
		if epoch, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			s.ResetAt = time.Unix(epoch, 0)
		}
	}
	if usedStr := headers.Get("X-RateLimit-Used"); usedStr != "" {
		if used, err := strconv.Atoi(usedStr); err == nil {
			s.Used = used
		}
	} else {
		s.Used = limit - remaining
	}

	return s, true
}
