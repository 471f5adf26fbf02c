package market_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verdano/creditmarket/internal/domain/ledger"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/domain/token"
	"github.com/verdano/creditmarket/internal/repository"
	"github.com/verdano/creditmarket/internal/repository/mocks"
)

type tokenStub struct {
	supported map[string]bool
}

func (s *tokenStub) Require(_ context.Context, tokenID string) error {
	if s.supported[tokenID] {
		return nil
	}
	return token.ErrNotSupported
}

type fixture struct {
	projects *mocks.ProjectRepository
	holdings *mocks.LedgerRepository
	listings *mocks.ListingRepository
	gateway  *mocks.PaymentGateway
	svc      *market.Service
}

func newFixture(supported ...string) *fixture {
	f := &fixture{
		projects: &mocks.ProjectRepository{},
		holdings: &mocks.LedgerRepository{},
		listings: &mocks.ListingRepository{},
		gateway:  &mocks.PaymentGateway{},
	}
	tokens := &tokenStub{supported: map[string]bool{}}
	for _, id := range supported {
		tokens.supported[id] = true
	}
	f.svc = market.NewService(f.projects, f.holdings, f.listings, tokens, f.gateway, nil, "treasury", nil)
	return f
}

func testProject() *project.Project {
	return &project.Project{
		ID:               1,
		Creator:          "admin",
		Name:             "P",
		TotalCredits:     100,
		AvailableCredits: 100,
		SoldCredits:      0,
		CreditPrice:      1000,
	}
}

func TestBuyCredits(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.projects.On("Get", ctx, int64(1)).Return(testProject(), nil)
	f.gateway.On("Pull", ctx, "usdc", "buyer", "treasury", int64(10000)).Return(nil)
	f.projects.On("ApplySale", ctx, int64(1), "buyer", int64(10)).Return(nil)

	err := f.svc.BuyCredits(ctx, "buyer", 1, 10, "usdc")
	require.NoError(t, err)
	f.projects.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestBuyCredits_ProjectNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.projects.On("Get", ctx, int64(1)).Return((*project.Project)(nil), repository.ErrNotFound)

	err := f.svc.BuyCredits(ctx, "buyer", 1, 10, "usdc")
	require.ErrorIs(t, err, project.ErrNotFound)
}

func TestBuyCredits_UnsupportedToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.projects.On("Get", ctx, int64(1)).Return(testProject(), nil)

	err := f.svc.BuyCredits(ctx, "buyer", 1, 10, "mystery")
	require.ErrorIs(t, err, token.ErrNotSupported)
	f.gateway.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyCredits_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.projects.On("Get", ctx, int64(1)).Return(testProject(), nil)

	err := f.svc.BuyCredits(ctx, "buyer", 1, 110, "usdc")
	require.ErrorIs(t, err, market.ErrInvalidAmount)

	err = f.svc.BuyCredits(ctx, "buyer", 1, 0, "usdc")
	require.ErrorIs(t, err, market.ErrInvalidAmount)
}

func TestBuyCredits_PaymentFailureMutatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.projects.On("Get", ctx, int64(1)).Return(testProject(), nil)
	f.gateway.On("Pull", ctx, "usdc", "buyer", "treasury", int64(10000)).
		Return(errors.New("transfer rejected"))

	err := f.svc.BuyCredits(ctx, "buyer", 1, 10, "usdc")
	require.ErrorIs(t, err, market.ErrPaymentFailed)
	f.projects.AssertNotCalled(t, "ApplySale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListCreditsForSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.holdings.On("BalanceOf", ctx, int64(1), "seller").Return(int64(10), nil)
	f.listings.On("CreateEscrow", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*market.Listing).ID = 1
	}).Return(nil)

	l, err := f.svc.ListCreditsForSale(ctx, "seller", 1, 5, 2000)
	require.NoError(t, err)
	require.Equal(t, int64(1), l.ID)
	require.Equal(t, "seller", l.Seller)
	require.Equal(t, int64(5), l.Amount)
	require.True(t, l.Active)
}

func TestListCreditsForSale_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.holdings.On("BalanceOf", ctx, int64(1), "seller").Return(int64(10), nil)

	_, err := f.svc.ListCreditsForSale(ctx, "seller", 1, 15, 2000)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	f.listings.AssertNotCalled(t, "CreateEscrow", mock.Anything, mock.Anything)
}

func TestListCreditsForSale_ZeroAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.ListCreditsForSale(ctx, "seller", 1, 0, 2000)
	require.ErrorIs(t, err, market.ErrInvalidAmount)
}

func activeListing() *market.Listing {
	return &market.Listing{
		ID:        1,
		ProjectID: 1,
		Seller:    "seller",
		Amount:    5,
		Price:     2000,
		Active:    true,
	}
}

func TestBuyFromListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.listings.On("Get", ctx, int64(1)).Return(activeListing(), nil)
	f.gateway.On("Pull", ctx, "usdc", "buyer", "seller", int64(2000)).Return(nil)
	f.listings.On("Settle", ctx, int64(1), "buyer").Return(nil)

	err := f.svc.BuyFromListing(ctx, "buyer", 1, 5, "usdc")
	require.NoError(t, err)
	f.listings.AssertExpectations(t)
}

func TestBuyFromListing_Inactive(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	l := activeListing()
	l.Active = false
	f.listings.On("Get", ctx, int64(1)).Return(l, nil)

	err := f.svc.BuyFromListing(ctx, "buyer", 1, 5, "usdc")
	require.ErrorIs(t, err, market.ErrListingInactive)
}

func TestBuyFromListing_PartialFillRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.listings.On("Get", ctx, int64(1)).Return(activeListing(), nil)

	err := f.svc.BuyFromListing(ctx, "buyer", 1, 3, "usdc")
	require.ErrorIs(t, err, market.ErrInvalidAmount)
	f.gateway.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyFromListing_PaymentFailureMutatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture("usdc")

	f.listings.On("Get", ctx, int64(1)).Return(activeListing(), nil)
	f.gateway.On("Pull", ctx, "usdc", "buyer", "seller", int64(2000)).
		Return(errors.New("insufficient funds"))

	err := f.svc.BuyFromListing(ctx, "buyer", 1, 5, "usdc")
	require.ErrorIs(t, err, market.ErrPaymentFailed)
	f.listings.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.listings.On("Get", ctx, int64(1)).Return(activeListing(), nil)
	f.listings.On("Cancel", ctx, int64(1)).Return(nil)

	err := f.svc.CancelListing(ctx, "seller", 1)
	require.NoError(t, err)
	f.listings.AssertExpectations(t)
}

func TestCancelListing_NotSeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.listings.On("Get", ctx, int64(1)).Return(activeListing(), nil)

	err := f.svc.CancelListing(ctx, "other", 1)
	require.ErrorIs(t, err, market.ErrNotSeller)
	f.listings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestCancelListing_AlreadyInactive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	l := activeListing()
	l.Active = false
	f.listings.On("Get", ctx, int64(1)).Return(l, nil)

	err := f.svc.CancelListing(ctx, "seller", 1)
	require.ErrorIs(t, err, market.ErrListingInactive)
}

func TestCancelListing_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.listings.On("Get", ctx, int64(9)).Return((*market.Listing)(nil), repository.ErrNotFound)

	err := f.svc.CancelListing(ctx, "seller", 9)
	require.ErrorIs(t, err, market.ErrListingNotFound)
}
