package api

import (
	"errors"
	"net/http"

	"github.com/okian/mizan/internal/adapters/csvio"
	repository "github.com/okian/mizan/internal/adapters/repository"
	service "github.com/okian/mizan/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrServe       = errors.New("serve failed")
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
)

// Error records the handler operation and the kind of a failure.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// statusFor maps an error to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, csvio.ErrInvalidRecord):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrNoDataAvailable),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, csvio.ErrYearNotFound),
		errors.Is(err, csvio.ErrNoYears):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, csvio.ErrInvalidSettings),
		errors.Is(err, csvio.ErrInvalidNumber),
		errors.Is(err, csvio.ErrInvalidYear):
		return http.StatusInternalServerError, "invalid_data"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
