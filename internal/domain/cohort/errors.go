package cohort

import "errors"

// Sentinel kinds for rollup errors.
var (
	ErrUnknownKey       = errors.New("unknown cohort key")
	ErrInvalidThreshold = errors.New("threshold must be positive")
)
