package quality

import "errors"

// ErrInvalidWeights is returned when a weight set cannot be used.
var ErrInvalidWeights = errors.New("invalid quality-of-hire weights")
