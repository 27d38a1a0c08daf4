package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var scheduleCheckCmd = &cobra.Command{
	Use:   "check [schedule-id]",
	Short: "Show a schedule's progress and drift",
	Long: `Show a schedule's plan, progress, velocity, and drift projection.
Defaults to the active schedule; completed schedules remain readable by ID.

The drift projection is advisory: it never changes the record. Act on it
with "schedule update --adjust-days" if the warning is right.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		id := "current"
		if len(args) > 0 {
			id = args[0]
		}
		return runScheduleCheck(cmd.Context(), app, id, checkJSON)
	},
}

// Flags
var checkJSON bool

func init() {
	scheduleCheckCmd.Flags().BoolVar(&checkJSON, "json", false, "emit the record and drift as JSON")
}

func runScheduleCheck(ctx context.Context, app *AppContext, id string, asJSON bool) error {
	record, err := app.Schedules.Get(ctx, id)
	if err != nil {
		return err
	}
	now := app.Clock.Now()

	if asJSON {
		out := struct {
			*domain.ScheduleRecord
			Drift *domain.Drift `json:"drift,omitempty"`
		}{record, record.Drift(now)}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printSchedule(record, now)
	return nil
}
