// Package health implements the runtime validator: a startup and
// periodic self-check that confirms authentication material, required
// configuration, and basic connectivity are sound, independent of any
// business call.
//
// Individual checks implement Checker and never fail each other; the
// Validator fans them out in parallel, bounds them with a timeout, and
// folds their results into an overall status. Authentication and
// connectivity failures make the report unhealthy; any other failing
// check only degrades it.
package health
