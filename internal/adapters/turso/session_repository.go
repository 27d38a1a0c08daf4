package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// SessionRepository persists session bounds.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at) VALUES (?, ?, NULL)`,
		session.ID, session.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) Current(ctx context.Context) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at FROM sessions
		 WHERE ended_at IS NULL ORDER BY started_at DESC LIMIT 1`)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no open session", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get current session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) End(ctx context.Context, id string, endedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		endedAt.Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: open session %q", domain.ErrNotFound, id)
	}
	return nil
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var (
		session domain.Session
		started string
		ended   sql.NullString
	)
	if err := row.Scan(&session.ID, &started, &ended); err != nil {
		return nil, err
	}

	startedAt, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	session.StartedAt = startedAt

	if ended.Valid {
		endedAt, err := time.Parse(time.RFC3339Nano, ended.String)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		session.EndedAt = &endedAt
	}
	return &session, nil
}
