// Package errors provides error handling for eudoxa.
//
// It re-exports github.com/cockroachdb/errors (stack traces, hints, details,
// assertion failures) and defines the sentinel kinds every layer reports:
//
//	// Unknown names
//	return errors.Wrapf(errors.ErrUnknownReference, "aspect %q", name)
//
//	// Checking the kind
//	if errors.Is(err, errors.ErrUnknownReference) { ... }
//
// Internal consistency violations use AssertionFailedf and are detected with
// IsAssertionFailure. They are bugs, never user input problems.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
	GetAllHints = crdb.GetAllHints
)

// Error inspection
var (
	Is = crdb.Is
	As = crdb.As
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel kinds. Wrap them with Wrapf to add the offending names.
var (
	// ErrDuplicate: an aspect or named consequence with that name exists.
	ErrDuplicate = New("duplicate definition")

	// ErrUnknownReference: an aspect, level, consequence or session is not registered.
	ErrUnknownReference = New("unknown reference")

	// ErrSchemaMismatch: a consequence's aspect keys differ from the registry's aspects.
	ErrSchemaMismatch = New("schema mismatch")

	// ErrContradiction: an assertion or derivation conflicts with an existing fact.
	ErrContradiction = New("contradiction")

	// ErrInvalidRequest: malformed input such as an unparseable label or level.
	ErrInvalidRequest = New("invalid request")
)

// IsUnknownReference checks if an error is or wraps ErrUnknownReference.
func IsUnknownReference(err error) bool {
	return err != nil && Is(err, ErrUnknownReference)
}

// IsDuplicate checks if an error is or wraps ErrDuplicate.
func IsDuplicate(err error) bool {
	return err != nil && Is(err, ErrDuplicate)
}

// IsSchemaMismatch checks if an error is or wraps ErrSchemaMismatch.
func IsSchemaMismatch(err error) bool {
	return err != nil && Is(err, ErrSchemaMismatch)
}

// IsContradiction checks if an error is or wraps ErrContradiction.
func IsContradiction(err error) bool {
	return err != nil && Is(err, ErrContradiction)
}

// IsInvalidRequest checks if an error is or wraps ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewUnknownReference creates an unknown-reference error with a formatted message.
func NewUnknownReference(format string, args ...interface{}) error {
	return Wrapf(ErrUnknownReference, format, args...)
}

// NewInvalidRequest creates an invalid-request error with a formatted message.
func NewInvalidRequest(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
