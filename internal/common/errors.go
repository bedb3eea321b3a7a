// Package common defines shared constants and sentinel errors used across
// the storage, service and sync layers of Guardian. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNotFound            = errors.New("not found")
	ErrEngineClosed        = errors.New("engine closed")
	// ErrTimeout marks a single operation that ran past its deadline. The
	// store stays usable.
	ErrTimeout = errors.New("operation timed out")

	// Validation errors. Everything rejected before reaching the store wraps
	// ErrInvalidArgument.
	ErrInvalidArgument = errors.New("invalid argument")
)
