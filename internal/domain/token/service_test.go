package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verdano/creditmarket/internal/domain/token"
	"github.com/verdano/creditmarket/internal/repository/mocks"
)

func TestTokenService_AddRequiresOwner(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TokenRepository{}
	svc := token.NewService(repo, "owner", nil, nil)

	err := svc.Add(ctx, "someone-else", "usdc")
	require.ErrorIs(t, err, token.ErrUnauthorized)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestTokenService_AddIdempotent(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TokenRepository{}
	repo.On("Add", ctx, "usdc").Return(nil).Twice()

	svc := token.NewService(repo, "owner", nil, nil)
	require.NoError(t, svc.Add(ctx, "owner", "usdc"))
	require.NoError(t, svc.Add(ctx, "owner", "usdc"))
}

func TestTokenService_AddEmptyToken(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TokenRepository{}
	svc := token.NewService(repo, "owner", nil, nil)

	err := svc.Add(ctx, "owner", "  ")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestTokenService_Require(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TokenRepository{}
	repo.On("IsSupported", ctx, "usdc").Return(true, nil)
	repo.On("IsSupported", ctx, "mystery").Return(false, nil)

	svc := token.NewService(repo, "owner", nil, nil)
	require.NoError(t, svc.Require(ctx, "usdc"))
	require.ErrorIs(t, svc.Require(ctx, "mystery"), token.ErrNotSupported)
}
