package sample

import "errors"

// Sentinel errors for sample generation and submission.
var (
	ErrInvalidConfig = errors.New("invalid sample config")
	ErrUnexpected    = errors.New("unexpected server response")
)
