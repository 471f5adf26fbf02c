package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdano/creditmarket/internal/repository"
)

// LedgerRepository implements ledger.Repository for SQLite
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// BalanceOf returns the holder's credit balance, zero when no holding exists
func (r *LedgerRepository) BalanceOf(ctx context.Context, projectID int64, holder string) (int64, error) {
	query := `SELECT amount FROM holdings WHERE project_id = ? AND holder = ?`

	var amount int64
	err := r.db.QueryRowContext(ctx, query, projectID, holder).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return amount, nil
}

// Credit increases the holder's balance, creating the holding if needed
func (r *LedgerRepository) Credit(ctx context.Context, projectID int64, holder string, amount int64) error {
	query := `
		INSERT INTO holdings (project_id, holder, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, holder) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := r.db.ExecContext(ctx, query, projectID, holder, amount); err != nil {
		return fmt.Errorf("failed to credit holding: %w", err)
	}

	return nil
}

// Debit decreases the holder's balance, failing when it would go negative
func (r *LedgerRepository) Debit(ctx context.Context, projectID int64, holder string, amount int64) error {
	query := `
		UPDATE holdings
		SET amount = amount - ?
		WHERE project_id = ? AND holder = ? AND amount >= ?
	`

	result, err := r.db.ExecContext(ctx, query, amount, projectID, holder, amount)
	if err != nil {
		return fmt.Errorf("failed to debit holding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrInsufficient
	}

	return nil
}
