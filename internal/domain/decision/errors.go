package decision

import "errors"

// Sentinel kinds for classifier configuration errors.
var (
	ErrInvalidPanelSize = errors.New("panel size must be positive")
	ErrInvalidBands     = errors.New("invalid score bands")
	ErrUnknownProfile   = errors.New("unknown decision profile")
)
