// Package domainerrors defines the typed error taxonomy shared by services and
// transport adapters. Services return *Error values; handlers translate the Code
// into a response without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Details describes which field failed validation and the range it had to fall in.
// AllowedStart and AllowedEnd are rendered calendar dates and may be empty when
// the failure is not range-shaped.
type Details struct {
	Field        string `json:"field"`
	AllowedStart string `json:"allowed_start,omitempty"`
	AllowedEnd   string `json:"allowed_end,omitempty"`
}

// Error is the concrete domain error.
type Error struct {
	Code    Code
	Message string
	Details *Details
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given code.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// Validation builds a CodeValidation error naming the offending field and the
// allowed range.
func Validation(field, msg, allowedStart, allowedEnd string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: msg,
		Details: &Details{Field: field, AllowedStart: allowedStart, AllowedEnd: allowedEnd},
	}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}
