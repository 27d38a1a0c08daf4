package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
	"github.com/emiliopalmerini/cadence/internal/util"
)

var sessionTimeCmd = &cobra.Command{
	Use:   "session-time [session-id]",
	Short: "Report where a session's time went",
	Long: `Report the three-way time breakdown for a session: wall clock, active
uptime, and idle semi-downtime. Defaults to the open session; open sessions
are reported up to now.

When a schedule is active its position (session N of M, day N of M) is
reported alongside the breakdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return runSessionTime(cmd.Context(), app, id, sessionTimeJSON)
	},
}

// Flags
var sessionTimeJSON bool

func init() {
	sessionTimeCmd.Flags().BoolVar(&sessionTimeJSON, "json", false, "emit the report as JSON")
}

// sessionTimeReport is the JSON shape of the session-time command.
type sessionTimeReport struct {
	SessionID           string               `json:"session_id"`
	Open                bool                 `json:"open"`
	WallClockSeconds    float64              `json:"wall_clock_seconds"`
	UptimeSeconds       float64              `json:"uptime_seconds"`
	SemiDowntimeSeconds float64              `json:"semi_downtime_seconds"`
	CurrentState        string               `json:"current_state"`
	Schedule            *schedulePositionOut `json:"schedule,omitempty"`
}

type schedulePositionOut struct {
	ScheduleID    string `json:"schedule_id"`
	SessionNumber int    `json:"session_number"`
	TotalSessions int    `json:"total_sessions"`
	DaysElapsed   int    `json:"days_elapsed"`
	TotalDays     int    `json:"total_days"`
}

func runSessionTime(ctx context.Context, app *AppContext, id string, asJSON bool) error {
	session, err := resolveSession(ctx, app, id)
	if err != nil {
		return err
	}

	summary, _, err := summarizeSession(ctx, app, session)
	if err != nil {
		return err
	}
	if err := app.Metrics.ExportSessionTime(ctx, summary); err != nil {
		fmt.Fprintf(os.Stderr, "warning: metrics export failed: %v\n", err)
	}

	position := schedulePosition(ctx, app)

	if asJSON {
		report := sessionTimeReport{
			SessionID:           session.ID,
			Open:                session.Open(),
			WallClockSeconds:    summary.WallClock.Seconds(),
			UptimeSeconds:       summary.Uptime.Seconds(),
			SemiDowntimeSeconds: summary.SemiDowntime.Seconds(),
			CurrentState:        string(summary.CurrentState),
			Schedule:            position,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	state := "ended"
	if session.Open() {
		state = "open"
	}
	fmt.Printf("Session %s (%s)\n", session.ID, state)
	fmt.Printf("  Wall clock:     %s\n", util.FormatDuration(summary.WallClock))
	fmt.Printf("  Uptime:         %s (%s)\n", util.FormatDuration(summary.Uptime), util.FormatPercent(summary.Uptime, summary.WallClock))
	fmt.Printf("  Semi-downtime:  %s (%s)\n", util.FormatDuration(summary.SemiDowntime), util.FormatPercent(summary.SemiDowntime, summary.WallClock))
	fmt.Printf("  State:          %s\n", summary.CurrentState)

	if position != nil {
		fmt.Printf("Schedule %s: session %d of %d, day %d of %d\n",
			position.ScheduleID,
			position.SessionNumber, position.TotalSessions,
			position.DaysElapsed, position.TotalDays,
		)
	}
	return nil
}

// schedulePosition reports where the active schedule stands, or nil when no
// schedule is active. Store errors are not fatal for a time report.
func schedulePosition(ctx context.Context, app *AppContext) *schedulePositionOut {
	record, err := app.Schedules.Current(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "warning: schedule unavailable: %v\n", err)
		}
		return nil
	}
	return &schedulePositionOut{
		ScheduleID:    record.ScheduleID,
		SessionNumber: record.Progress.CurrentSessionNumber,
		TotalSessions: record.Estimates.TotalSessions,
		DaysElapsed:   record.Progress.DaysElapsed,
		TotalDays:     record.Estimates.TotalDays,
	}
}
