package ledger

import "context"

// Repository provides persistence for credit holdings.
type Repository interface {
	BalanceOf(ctx context.Context, projectID int64, holder string) (int64, error)
	Credit(ctx context.Context, projectID int64, holder string, amount int64) error
	Debit(ctx context.Context, projectID int64, holder string, amount int64) error
}
