package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verdano/creditmarket/internal/domain/events"
	"github.com/verdano/creditmarket/internal/domain/ledger"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/repository"
)

// TokenChecker gates which payment assets a purchase may use.
type TokenChecker interface {
	Require(ctx context.Context, tokenID string) error
}

// Service is the marketplace state machine: primary credit sales, listing
// escrow, settlement and cancellation. Every mutating operation validates
// its preconditions, pulls payment through the gateway, and only then
// applies the local mutation, so a failed pull leaves state untouched.
//
// Mutations are serialized through one mutex: conflicting calls resolve
// purely by execution order, the loser failing its preconditions.
type Service struct {
	mu sync.Mutex

	projects project.Repository
	holdings ledger.Repository
	listings ListingRepository
	tokens   TokenChecker
	gateway  PaymentGateway
	events   events.Recorder
	custody  string
	logger   *slog.Logger
}

// NewService creates a new marketplace service. Primary-sale proceeds are
// pulled into the custody account; listing proceeds go to the seller.
func NewService(
	projects project.Repository,
	holdings ledger.Repository,
	listings ListingRepository,
	tokens TokenChecker,
	gateway PaymentGateway,
	recorder events.Recorder,
	custody string,
	logger *slog.Logger,
) *Service {
	return &Service{
		projects: projects,
		holdings: holdings,
		listings: listings,
		tokens:   tokens,
		gateway:  gateway,
		events:   recorder,
		custody:  custody,
		logger:   logger,
	}
}

// BuyCredits purchases credits from a project's primary sale.
func (s *Service) BuyCredits(ctx context.Context, buyer string, projectID, amount int64, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.ErrNotFound
		}
		return fmt.Errorf("loading project: %w", err)
	}

	if err := s.tokens.Require(ctx, tokenID); err != nil {
		return err
	}

	if amount <= 0 || amount > proj.AvailableCredits {
		return ErrInvalidAmount
	}

	cost := amount * proj.CreditPrice
	if cost/amount != proj.CreditPrice {
		return ErrInvalidAmount
	}

	if err := s.gateway.Pull(ctx, tokenID, buyer, s.custody, cost); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := s.projects.ApplySale(ctx, projectID, buyer, amount); err != nil {
		return fmt.Errorf("applying sale: %w", err)
	}

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:      events.TypeCreditsBought,
			ProjectID: projectID,
			Account:   buyer,
			Amount:    amount,
			TokenID:   tokenID,
		})
	}

	return nil
}

// ListCreditsForSale escrows credits out of the seller's holding and
// creates an active listing at the given total ask price.
func (s *Service) ListCreditsForSale(ctx context.Context, seller string, projectID, amount, price int64) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	balance, err := s.holdings.BalanceOf(ctx, projectID, seller)
	if err != nil {
		return nil, fmt.Errorf("getting balance: %w", err)
	}
	if balance < amount {
		return nil, fmt.Errorf("%w to list", ledger.ErrInsufficientBalance)
	}

	l := &Listing{
		ProjectID: projectID,
		Seller:    seller,
		Amount:    amount,
		Price:     price,
		Active:    true,
	}

	if err := s.listings.CreateEscrow(ctx, l); err != nil {
		if errors.Is(err, repository.ErrInsufficient) {
			return nil, fmt.Errorf("%w to list", ledger.ErrInsufficientBalance)
		}
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:      events.TypeCreditsListed,
			ListingID: l.ID,
			ProjectID: projectID,
			Account:   seller,
			Amount:    amount,
			Price:     price,
		})
	}

	return l, nil
}

// BuyFromListing settles an active listing in full: payment moves from
// the buyer to the seller, then the escrowed credits move to the buyer.
func (s *Service) BuyFromListing(ctx context.Context, buyer string, listingID, amount int64, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getListing(ctx, listingID)
	if err != nil {
		return err
	}
	if !l.Active {
		return ErrListingInactive
	}

	if err := s.tokens.Require(ctx, tokenID); err != nil {
		return err
	}

	// All-or-nothing: a listing fills only at its full escrowed amount.
	if amount != l.Amount {
		return ErrInvalidAmount
	}

	if err := s.gateway.Pull(ctx, tokenID, buyer, l.Seller, l.Price); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := s.listings.Settle(ctx, listingID, buyer); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrListingInactive
		}
		return fmt.Errorf("settling listing: %w", err)
	}

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:      events.TypeListingSold,
			ListingID: listingID,
			ProjectID: l.ProjectID,
			Account:   buyer,
			Amount:    amount,
			Price:     l.Price,
			TokenID:   tokenID,
		})
	}

	return nil
}

// CancelListing deactivates the caller's listing and returns the escrowed
// credits to their holding. A settled or cancelled listing stays terminal.
func (s *Service) CancelListing(ctx context.Context, caller string, listingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getListing(ctx, listingID)
	if err != nil {
		return err
	}
	if caller != l.Seller {
		return ErrNotSeller
	}
	if !l.Active {
		return ErrListingInactive
	}

	if err := s.listings.Cancel(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrListingInactive
		}
		return fmt.Errorf("cancelling listing: %w", err)
	}

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:      events.TypeListingCancelled,
			ListingID: listingID,
			ProjectID: l.ProjectID,
			Account:   l.Seller,
			Amount:    l.Amount,
		})
	}

	return nil
}

// GetListing fetches a listing by ID.
func (s *Service) GetListing(ctx context.Context, id int64) (*Listing, error) {
	return s.getListing(ctx, id)
}

// ListListings returns listings matching the given filters.
func (s *Service) ListListings(ctx context.Context, opts ListOptions) ([]Listing, error) {
	return s.listings.List(ctx, opts)
}

func (s *Service) getListing(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.listings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("loading listing: %w", err)
	}
	return l, nil
}
