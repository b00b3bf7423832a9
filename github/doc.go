// Package github is the client core: construction, the dispatch
// pipeline, and the caller-facing API.
//
// A dispatch flows cache → rate limit reservation → breaker/retry/
// timeout → transport → classification, updating cache and rate-limit
// state as side effects and emitting one observe.Event per call.
//
// Callers reach the API through domain services (repositories, issues,
// pull requests, users) whose operations are segregated into Reader,
// Writer, and Manager contracts. Role values compose those contracts
// so a permission tier physically cannot name an operation above it.
package github
