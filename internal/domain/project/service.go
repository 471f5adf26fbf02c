package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verdano/creditmarket/internal/domain/events"
	"github.com/verdano/creditmarket/internal/repository"
)

// Service handles project registry operations.
type Service struct {
	repo   Repository
	events events.Recorder
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, recorder events.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, events: recorder, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name         string
	TotalCredits int64
	CreditPrice  int64
}

// Create registers a new project with a fixed credit supply and price.
// Any caller may create a project; the creator is recorded.
func (s *Service) Create(ctx context.Context, creator string, req CreateRequest) (*Project, error) {
	if req.TotalCredits <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.CreditPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	proj := &Project{
		Creator:          creator,
		Name:             req.Name,
		TotalCredits:     req.TotalCredits,
		AvailableCredits: req.TotalCredits,
		SoldCredits:      0,
		CreditPrice:      req.CreditPrice,
		CreatedAt:        time.Now(),
	}

	id, err := s.repo.Create(ctx, proj)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	proj.ID = id

	if s.events != nil {
		s.events.Record(ctx, events.Event{
			Type:      events.TypeProjectCreated,
			ProjectID: proj.ID,
			Account:   creator,
			Amount:    proj.TotalCredits,
			Price:     proj.CreditPrice,
		})
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}
