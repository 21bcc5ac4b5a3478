// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-poll.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrWouldBlock means the operation cannot complete right now
	// without blocking. It is a retry cue, not a failure: callers clear
	// cached readiness and wait for the next event.
	ErrWouldBlock = fmt.Errorf("operation would block")

	ErrRegistrarClosed   = fmt.Errorf("registrar is closed")
	ErrAlreadyRegistered = fmt.Errorf("resource already registered")
	ErrNotRegistered     = fmt.Errorf("resource not registered")
	ErrNotRawConn        = fmt.Errorf("connection does not expose a raw descriptor")
	ErrNotSupported      = fmt.Errorf("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNotSupported
	ErrCodeAlreadyRegistered
	ErrCodeNotRegistered
	ErrCodeClosed
	ErrCodeInternal
)

// Error represents a structured error with code, cause and context.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
