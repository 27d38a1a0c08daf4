// Package turso stores the activity log and session bounds in a libsql
// database: a local file under the XDG data directory by default, a remote
// Turso database when configured.
package turso

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/cadence/internal/infrastructure/config"
	"github.com/emiliopalmerini/cadence/internal/util"
)

// NewDB opens the activity database. An empty URL selects the local file
// database, created on first use.
func NewDB(cfg config.Database) (*sql.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dataDir, err := util.DataDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = "file:" + filepath.Join(dataDir, "cadence.db")
	}
	if cfg.AuthToken != "" {
		dsn += "?authToken=" + cfg.AuthToken
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Keep the pool small: every invocation is a short-lived process and
	// remote Turso aggressively closes idle streams.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
