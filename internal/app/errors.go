package service

import "errors"

// Sentinel error kinds returned by the service.
var (
	ErrInvalidYear     = errors.New("invalid year")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotStarted      = errors.New("service not started")
	ErrNoDataAvailable = errors.New("no data available")
)
