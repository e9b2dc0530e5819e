package annotator

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies request failures.
type ErrorKind string

const (
	// KindInvalidRequest: a required field is missing or malformed.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindDuplicate: an identical request ran within the debounce window.
	KindDuplicate ErrorKind = "duplicate_suppressed"
	// KindNoMatch: the locator resolved to nothing.
	KindNoMatch ErrorKind = "no_match"
	// KindRuntimeFault: the document or renderer failed unexpectedly.
	KindRuntimeFault ErrorKind = "runtime_fault"
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrDuplicate      = &Error{Kind: KindDuplicate}
	ErrNoMatch        = &Error{Kind: KindNoMatch}
	ErrRuntimeFault   = &Error{Kind: KindRuntimeFault}
)

// Error is a classified request failure. None of them leave visuals behind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	// Suggestions accompany KindNoMatch.
	Suggestions []string
	// LastExecuted accompanies KindDuplicate.
	LastExecuted time.Time
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func invalidRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func runtimeFault(message string, err error) *Error {
	return &Error{Kind: KindRuntimeFault, Message: message, Err: err}
}

// KindOf returns the kind of err, treating unclassified errors as faults.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRuntimeFault
}
