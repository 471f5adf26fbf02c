package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project and returns its assigned id
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) (int64, error) {
	query := `
		INSERT INTO projects (creator, name, total_credits, available_credits, sold_credits, credit_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Creator,
		proj.Name,
		proj.TotalCredits,
		proj.AvailableCredits,
		proj.SoldCredits,
		proj.CreditPrice,
		proj.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get project id: %w", err)
	}

	return id, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	query := `
		SELECT id, creator, name, total_credits, available_credits, sold_credits, credit_price, created_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Creator,
		&proj.Name,
		&proj.TotalCredits,
		&proj.AvailableCredits,
		&proj.SoldCredits,
		&proj.CreditPrice,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// List returns all projects with summary information
func (r *ProjectRepository) List(ctx context.Context) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.total_credits,
			p.available_credits,
			p.credit_price,
			p.created_at,
			COUNT(l.id) as active_listings
		FROM projects p
		LEFT JOIN listings l ON l.project_id = p.id AND l.active = 1
		GROUP BY p.id, p.name, p.total_credits, p.available_credits, p.credit_price, p.created_at
		ORDER BY p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.TotalCredits,
			&summary.AvailableCredits,
			&summary.CreditPrice,
			&summary.CreatedAt,
			&summary.ActiveListings,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// ApplySale atomically moves amount from available to sold and credits the
// buyer's holding. The guarded UPDATE keeps available from going negative
// even if the caller's precondition check raced.
func (r *ProjectRepository) ApplySale(ctx context.Context, projectID int64, buyer string, amount int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE projects
		SET available_credits = available_credits - ?,
		    sold_credits = sold_credits + ?
		WHERE id = ? AND available_credits >= ?
	`

	result, err := tx.ExecContext(ctx, updateQuery, amount, amount, projectID, amount)
	if err != nil {
		return fmt.Errorf("failed to apply sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the project is unknown or available < amount.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if exists == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrInsufficient
	}

	creditQuery := `
		INSERT INTO holdings (project_id, holder, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, holder) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := tx.ExecContext(ctx, creditQuery, projectID, buyer, amount); err != nil {
		return fmt.Errorf("failed to credit buyer: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
