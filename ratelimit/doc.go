// Package ratelimit tracks GitHub API quota per limit bucket and gates
// dispatch.
//
// The coordinator keeps one window per bucket (core, search, graphql),
// refreshed from authoritative response headers, plus an independent
// secondary (abuse) cooldown that takes precedence over all primary
// bookkeeping. Callers reserve quota before dispatch and release the
// reservation if the call is abandoned.
package ratelimit
