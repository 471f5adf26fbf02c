package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/repository"
)

// ListingRepository implements market.ListingRepository for SQLite
type ListingRepository struct {
	db *DB
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// CreateEscrow debits the seller's holding and inserts the listing in one
// transaction. Fails with repository.ErrInsufficient when the seller's
// unescrowed balance is below the listed amount.
func (r *ListingRepository) CreateEscrow(ctx context.Context, l *market.Listing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	debitQuery := `
		UPDATE holdings
		SET amount = amount - ?
		WHERE project_id = ? AND holder = ? AND amount >= ?
	`

	result, err := tx.ExecContext(ctx, debitQuery, l.Amount, l.ProjectID, l.Seller, l.Amount)
	if err != nil {
		return fmt.Errorf("failed to escrow credits: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrInsufficient
	}

	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	insertQuery := `
		INSERT INTO listings (project_id, seller, amount, price, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
	`

	insert, err := tx.ExecContext(ctx, insertQuery, l.ProjectID, l.Seller, l.Amount, l.Price, createdAt)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	id, err := insert.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get listing id: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.ID = id
	l.Active = true
	l.CreatedAt = createdAt

	return nil
}

// Get retrieves a listing by ID
func (r *ListingRepository) Get(ctx context.Context, id int64) (*market.Listing, error) {
	query := `
		SELECT id, project_id, seller, amount, price, active, created_at
		FROM listings
		WHERE id = ?
	`

	var l market.Listing
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID,
		&l.ProjectID,
		&l.Seller,
		&l.Amount,
		&l.Price,
		&l.Active,
		&l.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &l, nil
}

// List returns listings matching the given filters
func (r *ListingRepository) List(ctx context.Context, opts market.ListOptions) ([]market.Listing, error) {
	query := `
		SELECT id, project_id, seller, amount, price, active, created_at
		FROM listings
		WHERE 1=1
	`

	args := []interface{}{}
	if opts.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *opts.ProjectID)
	}
	if opts.ActiveOnly {
		query += " AND active = 1"
	}

	query += " ORDER BY id ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []market.Listing
	for rows.Next() {
		var l market.Listing
		err := rows.Scan(&l.ID, &l.ProjectID, &l.Seller, &l.Amount, &l.Price, &l.Active, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}

	return listings, nil
}

// Settle deactivates an active listing and credits its escrowed amount to
// the buyer. The active guard makes settlement terminal: a second settle
// or cancel of the same listing fails with repository.ErrConflict.
func (r *ListingRepository) Settle(ctx context.Context, id int64, buyer string) error {
	return r.close(ctx, id, func(l *market.Listing) (string, int64) {
		return buyer, l.Amount
	})
}

// Cancel deactivates an active listing and returns its escrowed amount to
// the seller.
func (r *ListingRepository) Cancel(ctx context.Context, id int64) error {
	return r.close(ctx, id, func(l *market.Listing) (string, int64) {
		return l.Seller, l.Amount
	})
}

// close deactivates an active listing and credits its amount to whichever
// holder the recipient func selects, all in one transaction.
func (r *ListingRepository) close(ctx context.Context, id int64, recipient func(*market.Listing) (string, int64)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var l market.Listing
	err = tx.QueryRowContext(ctx,
		`SELECT id, project_id, seller, amount, price, active FROM listings WHERE id = ?`, id).Scan(
		&l.ID, &l.ProjectID, &l.Seller, &l.Amount, &l.Price, &l.Active,
	)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE listings SET active = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}

	holder, amount := recipient(&l)
	creditQuery := `
		INSERT INTO holdings (project_id, holder, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, holder) DO UPDATE SET amount = amount + excluded.amount
	`

	if _, err := tx.ExecContext(ctx, creditQuery, l.ProjectID, holder, amount); err != nil {
		return fmt.Errorf("failed to credit holder: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
