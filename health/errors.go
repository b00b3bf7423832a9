package health

import "errors"

var (
	// ErrCheckTimeout marks a check that did not finish within the
	// validator's timeout.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrUnknownCheck is returned when asking for a check that was
	// never registered.
	ErrUnknownCheck = errors.New("health: unknown check")
)
