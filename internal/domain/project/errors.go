package project

import "errors"

var (
	// ErrNotFound indicates the project doesn't exist.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidAmount indicates a zero total credit supply.
	ErrInvalidAmount = errors.New("total credits must be greater than zero")
	// ErrInvalidPrice indicates a zero credit price.
	ErrInvalidPrice = errors.New("credit price must be greater than zero")
)
