// Package outcome provides a two-variant success/failure result type.
//
// Remote-API operations return an Outcome instead of raising for expected
// failure modes. Combinators (Map, FlatMap, MapError, Match) compose
// outcome-returning operations and short-circuit on the first failure.
// Async wraps a pending computation and resolves to a terminal Outcome.
package outcome
