package token

import "context"

// Repository provides persistence for the supported token set.
type Repository interface {
	Add(ctx context.Context, tokenID string) error
	IsSupported(ctx context.Context, tokenID string) (bool, error)
	List(ctx context.Context) ([]SupportedToken, error)
}
