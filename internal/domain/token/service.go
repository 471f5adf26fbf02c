package token

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verdano/creditmarket/internal/domain/events"
)

// Service handles the supported payment-token registry. Registration is
// gated on the system owner; lookups are open.
type Service struct {
	repo   Repository
	owner  string
	events events.Recorder
	logger *slog.Logger
}

// NewService creates a new token registry service.
func NewService(repo Repository, owner string, recorder events.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, owner: owner, events: recorder, logger: logger}
}

// Owner returns the system owner account.
func (s *Service) Owner() string {
	return s.owner
}

// Add registers a payment token. Only the owner may call this; adding an
// already-registered token is a no-op.
func (s *Service) Add(ctx context.Context, caller, tokenID string) error {
	if caller != s.owner {
		return ErrUnauthorized
	}
	if strings.TrimSpace(tokenID) == "" {
		return ErrInvalidToken
	}

	if err := s.repo.Add(ctx, tokenID); err != nil {
		return fmt.Errorf("adding token: %w", err)
	}

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:    events.TypeTokenAdded,
			Account: caller,
			TokenID: tokenID,
		})
	}

	return nil
}

// IsSupported reports whether a payment token is registered.
func (s *Service) IsSupported(ctx context.Context, tokenID string) (bool, error) {
	return s.repo.IsSupported(ctx, tokenID)
}

// Require returns ErrNotSupported unless the token is registered.
func (s *Service) Require(ctx context.Context, tokenID string) error {
	ok, err := s.repo.IsSupported(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("checking token: %w", err)
	}
	if !ok {
		return ErrNotSupported
	}
	return nil
}

// List returns all registered payment tokens.
func (s *Service) List(ctx context.Context) ([]SupportedToken, error) {
	return s.repo.List(ctx)
}
