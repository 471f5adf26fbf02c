package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdano/creditmarket/internal/repository"
)

// WalletRepository implements payment.WalletRepository for SQLite
type WalletRepository struct {
	db *DB
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// BalanceOf returns the account's token balance, zero when never funded
func (r *WalletRepository) BalanceOf(ctx context.Context, tokenID, account string) (int64, error) {
	query := `SELECT amount FROM wallet_balances WHERE token_id = ? AND account = ?`

	var amount int64
	err := r.db.QueryRowContext(ctx, query, tokenID, account).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	return amount, nil
}

// Deposit adds funds to an account's token balance
func (r *WalletRepository) Deposit(ctx context.Context, tokenID, account string, amount int64) error {
	query := `
		INSERT INTO wallet_balances (token_id, account, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(token_id, account) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := r.db.ExecContext(ctx, query, tokenID, account, amount); err != nil {
		return fmt.Errorf("failed to deposit funds: %w", err)
	}

	return nil
}

// Transfer atomically moves amount of a token between two accounts. The
// guarded debit fails with repository.ErrInsufficient instead of letting
// the payer's balance go negative.
func (r *WalletRepository) Transfer(ctx context.Context, tokenID, from, to string, amount int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	debitQuery := `
		UPDATE wallet_balances
		SET amount = amount - ?
		WHERE token_id = ? AND account = ? AND amount >= ?
	`

	result, err := tx.ExecContext(ctx, debitQuery, amount, tokenID, from, amount)
	if err != nil {
		return fmt.Errorf("failed to debit payer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrInsufficient
	}

	creditQuery := `
		INSERT INTO wallet_balances (token_id, account, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(token_id, account) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := tx.ExecContext(ctx, creditQuery, tokenID, to, amount); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
