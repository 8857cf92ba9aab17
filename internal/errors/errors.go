// Package errors provides error handling for propmount.
//
// It re-exports the subset of github.com/cockroachdb/errors used across
// the guidance core: stack-carrying creation and wrapping, hints for the
// operator-facing layer, and assertion failures for programming errors
// that should never reach a running session.
//
//	if err := store.Append(rec); err != nil {
//	    return errors.Wrap(err, "append session record")
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
)

// Inspection
var (
	Is          = crdb.Is
	As          = crdb.As
	GetAllHints = crdb.GetAllHints
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// ErrInvalidInput marks boundary input from a UI or tracker collaborator
// that failed validation. Wrap it to add context; test with Is.
var ErrInvalidInput = New("invalid input")

// InvalidInputf wraps ErrInvalidInput with a formatted message. The
// format is kept as safe text; args stay redactable.
func InvalidInputf(format string, args ...interface{}) error {
	return crdb.WrapWithDepthf(1, ErrInvalidInput, format, args...)
}
