package domain

import "errors"

var (
	// ErrNotFound indicates that a record does not exist or is owned by a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a missing, malformed, or empty required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates a unique-constraint violation, e.g. a taken handle.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable indicates a storage or transaction failure.
	ErrUnavailable = errors.New("storage unavailable")
)
