package config

import (
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/cadence/internal/util"
)

// Database holds the activity-log database configuration. An empty URL
// selects a local file database under the XDG data directory.
type Database struct {
	URL       string `envconfig:"CADENCE_DATABASE_URL"`
	AuthToken string `envconfig:"CADENCE_AUTH_TOKEN"`
}

// Session holds session-time segmentation settings.
type Session struct {
	IdleThreshold time.Duration `envconfig:"CADENCE_IDLE_THRESHOLD" default:"30m"`
}

// Schedule holds schedule-store settings.
type Schedule struct {
	Dir         string        `envconfig:"CADENCE_SCHEDULE_DIR"`
	LockTimeout time.Duration `envconfig:"CADENCE_LOCK_TIMEOUT" default:"3s"`
}

// Config is the full cadence configuration.
type Config struct {
	Database Database
	Session  Session
	Schedule Schedule
}

// Load reads configuration from environment variables, filling path
// defaults from the XDG data directory.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Session); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Schedule); err != nil {
		return nil, err
	}

	if cfg.Schedule.Dir == "" {
		dataDir, err := util.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.Schedule.Dir = filepath.Join(dataDir, "schedule")
	}

	return &cfg, nil
}
