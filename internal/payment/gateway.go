// Package payment models the external fungible payment assets: per
// (token, account) balances plus the gateway that pulls payment out of a
// buyer's balance. The marketplace treats this as an external collaborator
// with an all-or-nothing pull.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/verdano/creditmarket/internal/repository"
)

var (
	// ErrInsufficientFunds indicates the payer's token balance is too low.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnauthorized indicates a non-owner deposit attempt.
	ErrUnauthorized = errors.New("only the owner can deposit funds")
	// ErrInvalidAmount indicates a non-positive transfer amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// WalletRepository provides persistence for external token balances.
type WalletRepository interface {
	BalanceOf(ctx context.Context, tokenID, account string) (int64, error)
	Deposit(ctx context.Context, tokenID, account string, amount int64) error
	// Transfer atomically moves amount between two accounts, failing with
	// repository.ErrInsufficient when the payer's balance is too low.
	Transfer(ctx context.Context, tokenID, from, to string, amount int64) error
}

// Gateway pulls payment between wallet balances. It satisfies the
// marketplace's PaymentGateway interface.
type Gateway struct {
	wallets WalletRepository
	logger  *slog.Logger
}

// NewGateway creates a wallet-backed payment gateway.
func NewGateway(wallets WalletRepository, logger *slog.Logger) *Gateway {
	return &Gateway{wallets: wallets, logger: logger}
}

// Pull moves amount of tokenID from the payer to the recipient. The move
// is all-or-nothing; on any failure both balances are unchanged.
func (g *Gateway) Pull(ctx context.Context, tokenID, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := g.wallets.Transfer(ctx, tokenID, from, to, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficient) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("transferring funds: %w", err)
	}
	if g.logger != nil {
		g.logger.Debug("payment pulled", "token", tokenID, "from", from, "to", to, "amount", amount)
	}
	return nil
}

// Service exposes wallet funding and balance reads. Deposits stand in for
// the external asset's issuance and are owner-gated.
type Service struct {
	wallets WalletRepository
	owner   string
	logger  *slog.Logger
}

// NewService creates a new wallet service.
func NewService(wallets WalletRepository, owner string, logger *slog.Logger) *Service {
	return &Service{wallets: wallets, owner: owner, logger: logger}
}

// Deposit adds funds to an account's token balance. Owner only.
func (s *Service) Deposit(ctx context.Context, caller, tokenID, account string, amount int64) error {
	if caller != s.owner {
		return ErrUnauthorized
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.wallets.Deposit(ctx, tokenID, account, amount); err != nil {
		return fmt.Errorf("depositing funds: %w", err)
	}
	return nil
}

// Balance returns an account's token balance, zero if never funded.
func (s *Service) Balance(ctx context.Context, tokenID, account string) (int64, error) {
	amount, err := s.wallets.BalanceOf(ctx, tokenID, account)
	if err != nil {
		return 0, fmt.Errorf("getting wallet balance: %w", err)
	}
	return amount, nil
}
