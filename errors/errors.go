// Package errors provides error handling for barista.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints rendered by the CLI
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := series.Append(day, cups); err != nil {
//	    return errors.Wrap(err, "failed to record observation")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "remove or repair the sales file")
//
//	// Check errors
//	if errors.Is(err, errors.ErrStorage) {
//	    // durable file problem
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
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors for the three failure classes the engine surfaces.
// Use these with errors.Is(); wrap them with errors.Wrap() to add context
// while preserving the class.
var (
	// ErrStorage indicates the sales file is unreadable, corrupt or unwritable
	ErrStorage = New("storage error")

	// ErrInvalidArgument indicates a malformed preference, day or numeric input
	ErrInvalidArgument = New("invalid argument")

	// ErrNotFound indicates a catalog lookup for an unknown name
	ErrNotFound = New("not found")
)

// IsStorageError checks if an error is or wraps ErrStorage
func IsStorageError(err error) bool {
	return err != nil && Is(err, ErrStorage)
}

// IsInvalidArgumentError checks if an error is or wraps ErrInvalidArgument
func IsInvalidArgumentError(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// WrapStorage marks err as a storage error and adds context.
// The original cause stays reachable through errors.Is.
func WrapStorage(err error, context string) error {
	if err == nil {
		return nil
	}
	return Wrap(crdb.Mark(err, ErrStorage), context)
}

// NewStorageError creates a storage error with a formatted message
func NewStorageError(format string, args ...interface{}) error {
	return Wrap(ErrStorage, Newf(format, args...).Error())
}

// NewInvalidArgumentError creates an invalid-argument error with a formatted message
func NewInvalidArgumentError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidArgument, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
