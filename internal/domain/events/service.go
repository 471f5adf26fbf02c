package events

import (
	"context"
	"log/slog"
)

// Service records and queries marketplace events.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new event service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an event to the log. Recording is best-effort:
// a failed append is logged and never fails the originating operation.
func (s *Service) Record(ctx context.Context, ev Event) {
	if s.logger != nil {
		s.logger.Info("event",
			"type", ev.Type,
			"project_id", ev.ProjectID,
			"listing_id", ev.ListingID,
			"account", ev.Account,
			"amount", ev.Amount,
		)
	}

	if s.repo == nil {
		return
	}
	if err := s.repo.Append(ctx, &ev); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to append event", "type", ev.Type, "error", err)
		}
	}
}

// List returns events matching the given filters.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Event, error) {
	return s.repo.List(ctx, opts)
}
