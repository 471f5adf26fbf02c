package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdano/creditmarket/internal/domain/events"
)

// EventRepository implements events.Repository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts a new event
func (r *EventRepository) Append(ctx context.Context, ev *events.Event) error {
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO event_log (
			event_type, project_id, listing_id, account, amount, price, token_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		string(ev.Type),
		nullableID(ev.ProjectID),
		nullableID(ev.ListingID),
		ev.Account,
		ev.Amount,
		ev.Price,
		ev.TokenID,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		ev.ID = id
	}
	ev.CreatedAt = createdAt

	return nil
}

// List returns events matching the given filters
func (r *EventRepository) List(ctx context.Context, opts events.ListOptions) ([]events.Event, error) {
	query := `
		SELECT id, event_type, project_id, listing_id, account, amount, price, token_id, created_at
		FROM event_log
		WHERE 1=1
	`

	args := []interface{}{}

	if opts.Type != nil {
		query += " AND event_type = ?"
		args = append(args, string(*opts.Type))
	}
	if opts.ProjectID != nil {
		query += " AND project_id = ?"
		args = append(args, *opts.ProjectID)
	}
	if opts.ListingID != nil {
		query += " AND listing_id = ?"
		args = append(args, *opts.ListingID)
	}
	if opts.Account != "" {
		query += " AND account = ?"
		args = append(args, opts.Account)
	}

	query += " ORDER BY id ASC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var entries []events.Event
	for rows.Next() {
		var ev events.Event
		var projectID, listingID sql.NullInt64
		err := rows.Scan(
			&ev.ID,
			&ev.Type,
			&projectID,
			&listingID,
			&ev.Account,
			&ev.Amount,
			&ev.Price,
			&ev.TokenID,
			&ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.ProjectID = projectID.Int64
		ev.ListingID = listingID.Int64
		entries = append(entries, ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return entries, nil
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
