package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

const (
	serviceName    = "cadence"
	serviceVersion = "1.0.0"
)

// Exporter publishes session-time and schedule metrics to an OTEL
// Collector.
type Exporter struct {
	provider          *sdkmetric.MeterProvider
	meter             metric.Meter
	uptimeSeconds     metric.Float64Histogram
	semiDownSeconds   metric.Float64Histogram
	wallClockSeconds  metric.Float64Histogram
	sessionsCompleted metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	uptimeSeconds, err := meter.Float64Histogram(
		"cadence_session_uptime_seconds",
		metric.WithDescription("Active work time per session"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating uptime histogram: %w", err)
	}

	semiDownSeconds, err := meter.Float64Histogram(
		"cadence_session_semi_downtime_seconds",
		metric.WithDescription("Idle time per session"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating semi-downtime histogram: %w", err)
	}

	wallClockSeconds, err := meter.Float64Histogram(
		"cadence_session_wall_clock_seconds",
		metric.WithDescription("Wall-clock time per session"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating wall-clock histogram: %w", err)
	}

	sessionsCompleted, err := meter.Int64Counter(
		"cadence_schedule_sessions_completed_total",
		metric.WithDescription("Sessions booked against schedules"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	return &Exporter{
		provider:          provider,
		meter:             meter,
		uptimeSeconds:     uptimeSeconds,
		semiDownSeconds:   semiDownSeconds,
		wallClockSeconds:  wallClockSeconds,
		sessionsCompleted: sessionsCompleted,
	}, nil
}

// ExportSessionTime records the three-way time partition for one session.
func (e *Exporter) ExportSessionTime(ctx context.Context, summary domain.SessionTimeSummary) error {
	attrs := metric.WithAttributes(
		attribute.String("state", string(summary.CurrentState)),
	)
	e.uptimeSeconds.Record(ctx, summary.Uptime.Seconds(), attrs)
	e.semiDownSeconds.Record(ctx, summary.SemiDowntime.Seconds(), attrs)
	e.wallClockSeconds.Record(ctx, summary.WallClock.Seconds(), attrs)
	return nil
}

// ExportScheduleProgress records one booked session against the schedule.
func (e *Exporter) ExportScheduleProgress(ctx context.Context, record *domain.ScheduleRecord) error {
	attrs := metric.WithAttributes(
		attribute.String("schedule_id", record.ScheduleID),
		attribute.String("status", string(record.Status)),
	)
	e.sessionsCompleted.Add(ctx, 1, attrs)
	return nil
}

// Close flushes pending metrics and shuts down the provider.
func (e *Exporter) Close(ctx context.Context) error {
	if e.provider != nil {
		return e.provider.Shutdown(ctx)
	}
	return nil
}
