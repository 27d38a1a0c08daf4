package cli

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/cadence/internal/adapters/otel"
	"github.com/emiliopalmerini/cadence/internal/adapters/schedulefile"
	"github.com/emiliopalmerini/cadence/internal/adapters/turso"
	"github.com/emiliopalmerini/cadence/internal/clock"
	"github.com/emiliopalmerini/cadence/internal/infrastructure/config"
)

// testNow is the pinned instant every CLI test runs at: a Wednesday.
var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

// testApp wires an AppContext against an in-memory database and a temp
// schedule directory, installs it as the app override, and restores on
// cleanup.
func testApp(t *testing.T) *AppContext {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := turso.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	app := &AppContext{
		DB:         db,
		Sessions:   turso.NewSessionRepository(db),
		Activities: turso.NewActivityRepository(db),
		Schedules:  schedulefile.New(t.TempDir(), 2*time.Second),
		Metrics:    otel.NewNoOpExporter(),
		Clock:      clock.Fixed(testNow),
		Config: &config.Config{
			Session: config.Session{IdleThreshold: 30 * time.Minute},
		},
	}

	testAppOverride = app
	t.Cleanup(func() {
		testAppOverride = nil
		db.Close()
	})
	return app
}

// setClock swaps the app clock, usually to move time forward mid-test.
func setClock(app *AppContext, at time.Time) {
	app.Clock = clock.Fixed(at)
}
