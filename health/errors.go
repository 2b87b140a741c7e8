package health

import "errors"

var (
	// ErrHeapCritical is the error of an unhealthy memory check.
	ErrHeapCritical = errors.New("health: heap above critical threshold")

	// ErrCheckTimeout is the error of a check that did not finish within
	// the aggregator timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrUnknownCheck is returned by Aggregator.Check for unregistered names.
	ErrUnknownCheck = errors.New("health: unknown check")
)
