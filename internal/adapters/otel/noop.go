package otel

import (
	"context"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportSessionTime(ctx context.Context, summary domain.SessionTimeSummary) error {
	return nil
}

func (e *NoOpExporter) ExportScheduleProgress(ctx context.Context, record *domain.ScheduleRecord) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
