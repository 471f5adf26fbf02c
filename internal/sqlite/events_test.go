package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verdano/creditmarket/internal/domain/events"
)

func TestEventRepository_AppendAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	ev := &events.Event{
		Type:      events.TypeCreditsBought,
		ProjectID: 1,
		Account:   "buyer",
		Amount:    10,
		TokenID:   "usdc",
	}
	require.NoError(t, repo.Append(ctx, ev))
	require.Equal(t, int64(1), ev.ID)
	require.False(t, ev.CreatedAt.IsZero())

	entries, err := repo.List(ctx, events.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, events.TypeCreditsBought, entries[0].Type)
	require.Equal(t, "buyer", entries[0].Account)
	require.Equal(t, int64(10), entries[0].Amount)
}

func TestEventRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &events.Event{Type: events.TypeCreditsBought, ProjectID: 1, Account: "buyer", Amount: 10}))
	require.NoError(t, repo.Append(ctx, &events.Event{Type: events.TypeCreditsListed, ProjectID: 1, ListingID: 1, Account: "seller", Amount: 5}))
	require.NoError(t, repo.Append(ctx, &events.Event{Type: events.TypeListingSold, ProjectID: 2, ListingID: 2, Account: "buyer", Amount: 3}))

	listed := events.TypeCreditsListed
	entries, err := repo.List(ctx, events.ListOptions{Type: &listed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "seller", entries[0].Account)

	projectID := int64(1)
	entries, err = repo.List(ctx, events.ListOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, events.ListOptions{Account: "buyer"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, events.ListOptions{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, events.TypeListingSold, entries[0].Type)
}
