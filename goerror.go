package rbridge

import (
	"errors"
	"fmt"
)

// Error kinds. Errors returned by the bridge and its backends unwrap to one
// of these, so callers can test them with errors.Is.
var (
	ErrIllegalArgument = errors.New("IllegalArgument")
	ErrForeign         = errors.New("RError")
	ErrType            = errors.New("TypeError")
	ErrClosed          = errors.New("ClosedError")
	ErrUnknownBackend  = errors.New("UnknownBackend")
)

func EArgumentError(format string, args ...interface{}) error {
	return Raisef(ErrIllegalArgument, format, args...)
}

// ERError is used by backends for any failure inside R: unknown names,
// failed calls and values that can not be converted.
func ERError(format string, args ...interface{}) error { return Raisef(ErrForeign, format, args...) }

func ETypeError(format string, args ...interface{}) error { return Raisef(ErrType, format, args...) }

// RaiseError containing error type and message
type RaiseError struct {
	err error
	msg string
}

func Raise(err error, msg string) error {
	return &RaiseError{err, msg}
}

func Raisef(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return Raise(err, msg)
}

// Error implements error interface
func (e *RaiseError) Error() string {
	return e.msg
}

// String implements stringer interface
func (e *RaiseError) String() string {
	return e.msg
}

// Unwrap returns inner error
func (e *RaiseError) Unwrap() error {
	return e.err
}

// Kind returns name of error kind, "RError" for R side failures
func (e *RaiseError) Kind() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}
