package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/repository"
)

type marketFixture struct {
	listings *ListingRepository
	ledger   *LedgerRepository
	project  int64
	ctx      context.Context
}

// setupMarket creates a project and gives the seller 10 credits.
func setupMarket(t *testing.T) *marketFixture {
	t.Helper()
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	ctx := context.Background()

	id, err := projects.Create(ctx, newTestProject("P"))
	require.NoError(t, err)
	require.NoError(t, projects.ApplySale(ctx, id, "seller", 10))

	return &marketFixture{
		listings: NewListingRepository(db),
		ledger:   NewLedgerRepository(db),
		project:  id,
		ctx:      ctx,
	}
}

func (f *marketFixture) list(t *testing.T, amount, price int64) *market.Listing {
	t.Helper()
	l := &market.Listing{ProjectID: f.project, Seller: "seller", Amount: amount, Price: price}
	require.NoError(t, f.listings.CreateEscrow(f.ctx, l))
	return l
}

func (f *marketFixture) balance(t *testing.T, holder string) int64 {
	t.Helper()
	balance, err := f.ledger.BalanceOf(f.ctx, f.project, holder)
	require.NoError(t, err)
	return balance
}

func TestListingRepository_CreateEscrowDebitsSeller(t *testing.T) {
	f := setupMarket(t)

	l := f.list(t, 5, 2000)
	require.Equal(t, int64(1), l.ID)
	require.True(t, l.Active)
	require.Equal(t, int64(5), f.balance(t, "seller"))

	retrieved, err := f.listings.Get(f.ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "seller", retrieved.Seller)
	require.Equal(t, int64(5), retrieved.Amount)
	require.Equal(t, int64(2000), retrieved.Price)
	require.True(t, retrieved.Active)
}

func TestListingRepository_CreateEscrowInsufficient(t *testing.T) {
	f := setupMarket(t)

	l := &market.Listing{ProjectID: f.project, Seller: "seller", Amount: 15, Price: 2000}
	err := f.listings.CreateEscrow(f.ctx, l)
	require.ErrorIs(t, err, repository.ErrInsufficient)

	// No listing row, no debit
	require.Equal(t, int64(10), f.balance(t, "seller"))
	_, err = f.listings.Get(f.ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingRepository_SettleCreditsBuyer(t *testing.T) {
	f := setupMarket(t)
	l := f.list(t, 5, 2000)

	require.NoError(t, f.listings.Settle(f.ctx, l.ID, "buyer"))

	retrieved, err := f.listings.Get(f.ctx, l.ID)
	require.NoError(t, err)
	require.False(t, retrieved.Active)

	// Escrowed credits moved to the buyer; seller stays debited
	require.Equal(t, int64(5), f.balance(t, "buyer"))
	require.Equal(t, int64(5), f.balance(t, "seller"))
}

func TestListingRepository_SettleIsTerminal(t *testing.T) {
	f := setupMarket(t)
	l := f.list(t, 5, 2000)

	require.NoError(t, f.listings.Settle(f.ctx, l.ID, "buyer"))

	require.ErrorIs(t, f.listings.Settle(f.ctx, l.ID, "buyer2"), repository.ErrConflict)
	require.ErrorIs(t, f.listings.Cancel(f.ctx, l.ID), repository.ErrConflict)

	// No double credit
	require.Equal(t, int64(5), f.balance(t, "buyer"))
	require.Equal(t, int64(0), f.balance(t, "buyer2"))
}

func TestListingRepository_CancelReturnsEscrow(t *testing.T) {
	f := setupMarket(t)
	l := f.list(t, 5, 2000)
	require.Equal(t, int64(5), f.balance(t, "seller"))

	require.NoError(t, f.listings.Cancel(f.ctx, l.ID))

	retrieved, err := f.listings.Get(f.ctx, l.ID)
	require.NoError(t, err)
	require.False(t, retrieved.Active)
	require.Equal(t, int64(10), f.balance(t, "seller"))

	// Cancel is terminal too
	require.ErrorIs(t, f.listings.Cancel(f.ctx, l.ID), repository.ErrConflict)
	require.Equal(t, int64(10), f.balance(t, "seller"))
}

func TestListingRepository_SettleUnknown(t *testing.T) {
	f := setupMarket(t)

	require.ErrorIs(t, f.listings.Settle(f.ctx, 42, "buyer"), repository.ErrNotFound)
	require.ErrorIs(t, f.listings.Cancel(f.ctx, 42), repository.ErrNotFound)
}

func TestListingRepository_List(t *testing.T) {
	f := setupMarket(t)
	l1 := f.list(t, 3, 1000)
	l2 := f.list(t, 4, 2000)
	require.NoError(t, f.listings.Cancel(f.ctx, l1.ID))

	all, err := f.listings.List(f.ctx, market.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := f.listings.List(f.ctx, market.ListOptions{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, l2.ID, active[0].ID)

	other := int64(99)
	none, err := f.listings.List(f.ctx, market.ListOptions{ProjectID: &other})
	require.NoError(t, err)
	require.Empty(t, none)
}
