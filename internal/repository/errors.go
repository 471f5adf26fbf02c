package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInsufficient is returned when a guarded debit exceeds the balance
	ErrInsufficient = errors.New("insufficient balance")

	// ErrConflict is returned when a state guard fails, e.g. settling a
	// listing that is no longer active
	ErrConflict = errors.New("conflict: entity is not in the expected state")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
