package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) (int64, error)
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Summary, error)
	ApplySale(ctx context.Context, projectID int64, buyer string, amount int64) error
}
