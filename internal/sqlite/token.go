package sqlite

import (
	"context"
	"fmt"

	"github.com/verdano/creditmarket/internal/domain/token"
)

// TokenRepository implements token.Repository for SQLite
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Add registers a payment token; adding an existing token is a no-op
func (r *TokenRepository) Add(ctx context.Context, tokenID string) error {
	query := `INSERT OR IGNORE INTO supported_tokens (token_id) VALUES (?)`

	if _, err := r.db.ExecContext(ctx, query, tokenID); err != nil {
		return fmt.Errorf("failed to add token: %w", err)
	}

	return nil
}

// IsSupported reports whether a payment token is registered
func (r *TokenRepository) IsSupported(ctx context.Context, tokenID string) (bool, error) {
	query := `SELECT COUNT(*) FROM supported_tokens WHERE token_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, tokenID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}

	return count > 0, nil
}

// List returns all registered payment tokens
func (r *TokenRepository) List(ctx context.Context) ([]token.SupportedToken, error) {
	query := `SELECT token_id, added_at FROM supported_tokens ORDER BY added_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []token.SupportedToken
	for rows.Next() {
		var t token.SupportedToken
		if err := rows.Scan(&t.TokenID, &t.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token rows: %w", err)
	}

	return tokens, nil
}
