package csvio

import "errors"

// Sentinel kinds for CSV loading.
var (
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidYear     = errors.New("invalid year")
	ErrInvalidSettings = errors.New("invalid dataset settings")
	ErrInvalidRecord   = errors.New("invalid record")
	ErrNoYears         = errors.New("no years available")
	ErrYearNotFound    = errors.New("year not found")
)
