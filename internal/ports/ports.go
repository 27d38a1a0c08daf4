// Package ports defines the interfaces between the engine and its adapters.
package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// SessionRepository persists session wall-clock bounds.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Current returns the most recently started session that has not been
	// ended yet.
	Current(ctx context.Context) (*domain.Session, error)
	End(ctx context.Context, id string, endedAt time.Time) error
}

// ActivityRepository is the append-only activity log.
type ActivityRepository interface {
	Append(ctx context.Context, event *domain.ActivityEvent) error
	// ListBySession returns the session's events ordered ascending by
	// timestamp.
	ListBySession(ctx context.Context, sessionID string) ([]domain.ActivityEvent, error)
}

// ScheduleStore persists schedule records. Implementations must serialize
// read-modify-write cycles and write atomically; a racing pair of updates
// is either serialized or one of them fails with ErrConcurrentUpdate.
type ScheduleStore interface {
	// Create stores a new record, failing with ErrAlreadyActive when a
	// non-completed record already exists for the same work item.
	Create(ctx context.Context, record *domain.ScheduleRecord) error
	// Get resolves a schedule ID, or "current" for the single active
	// record. Completed (archived) records remain readable.
	Get(ctx context.Context, id string) (*domain.ScheduleRecord, error)
	Current(ctx context.Context) (*domain.ScheduleRecord, error)
	// Update applies a mutation under the store lock and persists the
	// result. When apply fails the persisted record is left untouched.
	Update(ctx context.Context, id string, apply func(*domain.ScheduleRecord) error) (*domain.ScheduleRecord, error)
}

// MetricsExporter publishes engine output to a metrics backend. Export
// failures must never fail the command that produced the numbers.
type MetricsExporter interface {
	ExportSessionTime(ctx context.Context, summary domain.SessionTimeSummary) error
	ExportScheduleProgress(ctx context.Context, record *domain.ScheduleRecord) error
	Close(ctx context.Context) error
}
