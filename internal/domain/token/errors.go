package token

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the system owner.
	ErrUnauthorized = errors.New("only the owner can register tokens")
	// ErrNotSupported indicates the payment asset is not registered.
	ErrNotSupported = errors.New("token not supported")
	// ErrInvalidToken indicates an empty token identifier.
	ErrInvalidToken = errors.New("invalid token id")
)
