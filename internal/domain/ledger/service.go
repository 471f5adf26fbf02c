package ledger

import (
	"context"
	"fmt"
	"log/slog"
)

// Service provides read access to credit holdings. Mutations go through
// the marketplace purchase, escrow and settlement paths only.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new ledger service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// BalanceOf returns the unescrowed credit balance for a holder, zero if
// the holding was never touched.
func (s *Service) BalanceOf(ctx context.Context, projectID int64, holder string) (int64, error) {
	amount, err := s.repo.BalanceOf(ctx, projectID, holder)
	if err != nil {
		return 0, fmt.Errorf("getting balance: %w", err)
	}
	return amount, nil
}
