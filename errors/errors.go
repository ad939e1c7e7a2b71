// Package errors provides error handling for qrforge.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing diagnostics
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrIncompleteAnswers) {
//	    // handle missing answers
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Common sentinel errors for use across qrforge.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrEmptyHeaderTable indicates the header table contained no data rows
	ErrEmptyHeaderTable = New("header table is empty")

	// ErrMalformedResponse indicates the generation service returned a body
	// that is not the expected JSON object
	ErrMalformedResponse = New("malformed generation response")

	// ErrIncompleteAnswers indicates a generated answer set is missing one or
	// more required linkIds after validation
	ErrIncompleteAnswers = New("incomplete answer set")

	// ErrRetryExhausted indicates the external generation service failed on
	// every allowed attempt
	ErrRetryExhausted = New("generation retries exhausted")

	// ErrServiceUnavailable indicates a required service is not available
	ErrServiceUnavailable = New("service unavailable")
)

// IsIncompleteAnswersError checks if an error is or wraps ErrIncompleteAnswers
func IsIncompleteAnswersError(err error) bool {
	return err != nil && Is(err, ErrIncompleteAnswers)
}

// IsRetryExhaustedError checks if an error is or wraps ErrRetryExhausted
func IsRetryExhaustedError(err error) bool {
	return err != nil && Is(err, ErrRetryExhausted)
}
