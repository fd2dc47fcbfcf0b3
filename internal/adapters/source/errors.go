package source

import "errors"

// Sentinel kinds for input errors.
var (
	ErrUnknownFormat   = errors.New("unknown input format")
	ErrNoHeader        = errors.New("input has no header row")
	ErrMissingColumn   = errors.New("required column missing")
	ErrDuplicateColumn = errors.New("column mapped twice")
	ErrNoSheet         = errors.New("workbook sheet not found")
	ErrDecode          = errors.New("cannot decode input")
)
