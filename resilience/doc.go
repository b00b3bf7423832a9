// Package resilience wraps transport dispatch with retry, circuit
// breaking, timeout, and concurrency limiting.
//
// Retry decisions are driven by the classified error's tag: only tags
// in the policy's retryable set are attempted again, and a rate-limit
// error's mandated wait overrides the computed backoff when larger.
// Circuit breakers are tracked per target identity; an open breaker
// fails fast with a synthesized server-tagged error without touching
// the transport. The Executor composes the patterns for the dispatch
// path.
package resilience
