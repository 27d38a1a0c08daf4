package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var scheduleInitCmd = &cobra.Command{
	Use:   "init <work-item>",
	Short: "Plan a schedule for a work item",
	Long: `Plan a schedule for a work item. The estimates set here are fixed:
later corrections go through "schedule update --adjust-days" and leave an
audit trail instead of rewriting the plan.

Examples:
  cadence schedule init "billing rewrite" --days 30 --sessions 12
  cadence schedule init "billing rewrite" --days 30 --sessions 12 --uptime-hours 18`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return runScheduleInit(cmd.Context(), app, args[0])
	},
}

// Flags
var (
	initDays        int
	initSessions    int
	initUptimeHours int
)

func init() {
	scheduleInitCmd.Flags().IntVar(&initDays, "days", 0, "estimated total calendar days")
	scheduleInitCmd.Flags().IntVar(&initSessions, "sessions", 0, "estimated total sessions")
	scheduleInitCmd.Flags().IntVar(&initUptimeHours, "uptime-hours", 0, "estimated total uptime hours (defaults to one hour per session)")
	_ = scheduleInitCmd.MarkFlagRequired("days")
	_ = scheduleInitCmd.MarkFlagRequired("sessions")
}

func runScheduleInit(ctx context.Context, app *AppContext, workItem string) error {
	record, err := domain.NewScheduleRecord(workItem, initDays, initSessions, initUptimeHours, app.Clock.Now())
	if err != nil {
		return err
	}
	if err := app.Schedules.Create(ctx, record); err != nil {
		return err
	}

	fmt.Printf("Schedule %s created\n", record.ScheduleID)
	printSchedule(record, app.Clock.Now())
	return nil
}
