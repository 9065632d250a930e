package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/suar-net/usage-pricing-be/internal/model"
)

// eventRepository is the implementation of IEventRepository.
type eventRepository struct {
	db *sql.DB
}

// NewEventRepository is the constructor for eventRepository.
func NewEventRepository(db *sql.DB) IEventRepository {
	return &eventRepository{db: db}
}

// Create appends a usage record and fills in the generated id. Rows are never
// updated or deleted afterwards.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO api_execution_logs (user_id, endpoint, execution_time, duration_ms, response_size_bytes, status_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		event.UserID,
		event.Endpoint,
		event.ExecutionTime,
		event.DurationMs,
		event.ResponseSizeBytes,
		event.StatusCode,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByUserID retrieves the most recent events of one user.
func (r *eventRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Event, error) {
	query := `
		SELECT id, user_id, endpoint, execution_time, duration_ms, response_size_bytes, status_code
		FROM api_execution_logs
		WHERE user_id = $1
		ORDER BY execution_time DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Endpoint,
			&e.ExecutionTime,
			&e.DurationMs,
			&e.ResponseSizeBytes,
			&e.StatusCode,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
