package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// ActivityRepository is the append-only activity log.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, event *domain.ActivityEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (session_id, ts, tool, detail) VALUES (?, ?, ?, ?)`,
		event.SessionID, event.Timestamp.Format(time.RFC3339Nano), event.Tool, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ActivityEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, ts, tool, detail FROM activities
		 WHERE session_id = ? ORDER BY ts ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		var (
			event domain.ActivityEvent
			ts    string
		)
		if err := rows.Scan(&event.ID, &event.SessionID, &ts, &event.Tool, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		timestamp, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse activity timestamp: %w", err)
		}
		event.Timestamp = timestamp
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return events, nil
}
