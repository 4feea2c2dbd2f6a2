package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Error is a domain failure that maps to one HTTP status.
// Messages keeps every message in order; the first one is the error text.
type Error struct {
	Status   int
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same status, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Status == e.Status && len(t.Messages) == 0
}

var (
	ErrBadRequest   = &Error{Status: http.StatusBadRequest}
	ErrUnauthorized = &Error{Status: http.StatusUnauthorized}
	ErrForbidden    = &Error{Status: http.StatusForbidden}
	ErrNotFound     = &Error{Status: http.StatusNotFound}

	// ErrNoData is returned for an update without any field.
	ErrNoData = BadRequest("No data")
)

func newError(status int, msgs []string) *Error {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		out = append(out, http.StatusText(status))
	}
	return &Error{Status: status, Messages: out}
}

func BadRequest(msgs ...string) *Error   { return newError(http.StatusBadRequest, msgs) }
func Unauthorized(msgs ...string) *Error { return newError(http.StatusUnauthorized, msgs) }
func Forbidden(msgs ...string) *Error    { return newError(http.StatusForbidden, msgs) }
func NotFound(msgs ...string) *Error     { return newError(http.StatusNotFound, msgs) }

// From extracts the *Error from err's chain.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
