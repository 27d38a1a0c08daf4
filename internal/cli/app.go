package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/emiliopalmerini/cadence/internal/adapters/otel"
	"github.com/emiliopalmerini/cadence/internal/adapters/schedulefile"
	"github.com/emiliopalmerini/cadence/internal/adapters/turso"
	"github.com/emiliopalmerini/cadence/internal/clock"
	"github.com/emiliopalmerini/cadence/internal/domain"
	"github.com/emiliopalmerini/cadence/internal/infrastructure/config"
	"github.com/emiliopalmerini/cadence/internal/ports"
)

// Test overrides let tests inject dependencies. When testAppOverride is set,
// newApp returns it as-is and the cleanup is a no-op.
var testAppOverride *AppContext

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB         *sql.DB
	Sessions   ports.SessionRepository
	Activities ports.ActivityRepository
	Schedules  ports.ScheduleStore
	Metrics    ports.MetricsExporter
	Clock      clock.Clock
	Config     *config.Config
}

// newApp creates an AppContext with all dependencies initialized. The
// returned cleanup must be called when the command is done.
func newApp(ctx context.Context) (*AppContext, func(), error) {
	if testAppOverride != nil {
		return testAppOverride, func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	db, err := turso.NewDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to activity database: %w", err)
	}

	var metrics ports.MetricsExporter = otel.NewNoOpExporter()
	if otelCfg := otel.LoadConfig(); otelCfg.Enabled {
		exporter, err := otel.NewExporter(ctx, otelCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: metrics disabled: %v\n", err)
		} else {
			metrics = exporter
		}
	}

	app := &AppContext{
		DB:         db,
		Sessions:   turso.NewSessionRepository(db),
		Activities: turso.NewActivityRepository(db),
		Schedules:  schedulefile.New(cfg.Schedule.Dir, cfg.Schedule.LockTimeout),
		Metrics:    metrics,
		Clock:      clock.System{},
		Config:     cfg,
	}

	cleanup := func() {
		_ = app.Metrics.Close(context.Background())
		_ = db.Close()
	}
	return app, cleanup, nil
}
