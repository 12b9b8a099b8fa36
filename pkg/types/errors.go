package types

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrBidNotFound        = errors.New("bid not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrAssignmentNotFound = errors.New("researcher is not assigned to this property")
	ErrTokenNotFound      = errors.New("token not found")
)

// StatusError is a failure carrying the status code the boundary layer
// should map it to. Services return these for anything other than plain
// store errors.
type StatusError struct {
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func NewStatusError(code int, format string, args ...any) *StatusError {
	return &StatusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) *StatusError {
	return NewStatusError(404, format, args...)
}

func ConflictError(format string, args ...any) *StatusError {
	return NewStatusError(409, format, args...)
}

func ForbiddenError(format string, args ...any) *StatusError {
	return NewStatusError(403, format, args...)
}

func BadRequestError(format string, args ...any) *StatusError {
	return NewStatusError(400, format, args...)
}

// TransactionError converts a multi-step write failure into the error
// the boundary layer reports. Failures that already map to a client
// status pass through untouched; everything else becomes a 500 whose
// message keeps the underlying failure instead of being masked.
func TransactionError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if StatusCode(err) != 500 {
		return err
	}
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return &StatusError{Code: 500, Message: msg, Err: err}
}

// StatusCode extracts the code from a StatusError chain, defaulting to 500.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPropertyNotFound),
		errors.Is(err, ErrBidNotFound),
		errors.Is(err, ErrReportNotFound),
		errors.Is(err, ErrAssignmentNotFound),
		errors.Is(err, ErrTokenNotFound):
		return 404
	}
	return 500
}
