package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var scheduleUpdateCmd = &cobra.Command{
	Use:   "update [schedule-id]",
	Short: "Book progress or revise a schedule",
	Long: `Book progress or revise a schedule. Defaults to the active schedule.

Book a finished session with a measured uptime, or derive it from a
recorded session's activity log:

  cadence schedule update --session-complete --uptime 1h30m
  cadence schedule update --session-complete --from-session current

Shift the estimated end date, leaving an audit trail:

  cadence schedule update --adjust-days 7 --reason "scope grew"

Attach a note, or close the schedule out:

  cadence schedule update --note "blocked on review"
  cadence schedule update --complete`,
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
		return runScheduleUpdate(cmd.Context(), app, id)
	},
}

// Flags
var (
	updateSessionComplete bool
	updateUptime          time.Duration
	updateFromSession     string
	updateAdjustDays      int
	updateReason          string
	updateNote            string
	updateComplete        bool
)

func init() {
	scheduleUpdateCmd.Flags().BoolVar(&updateSessionComplete, "session-complete", false, "book one finished session")
	scheduleUpdateCmd.Flags().DurationVar(&updateUptime, "uptime", 0, "measured uptime for the booked session (with --session-complete)")
	scheduleUpdateCmd.Flags().StringVar(&updateFromSession, "from-session", "", "derive uptime from a recorded session's activity log (with --session-complete)")
	scheduleUpdateCmd.Flags().IntVar(&updateAdjustDays, "adjust-days", 0, "shift the estimated end date by this many days")
	scheduleUpdateCmd.Flags().StringVar(&updateReason, "reason", "", "reason for the adjustment (required with --adjust-days)")
	scheduleUpdateCmd.Flags().StringVar(&updateNote, "note", "", "attach a free-form note")
	scheduleUpdateCmd.Flags().BoolVar(&updateComplete, "complete", false, "mark the schedule completed and archive it")
}

func runScheduleUpdate(ctx context.Context, app *AppContext, id string) error {
	if !updateSessionComplete && updateAdjustDays == 0 && updateNote == "" && !updateComplete {
		return fmt.Errorf("%w: nothing to update, pass --session-complete, --adjust-days, --note, or --complete", domain.ErrInvalidInput)
	}

	var uptime time.Duration
	if updateSessionComplete {
		var err error
		uptime, err = resolveUptime(ctx, app)
		if err != nil {
			return err
		}
	} else if updateUptime != 0 || updateFromSession != "" {
		return fmt.Errorf("%w: --uptime and --from-session require --session-complete", domain.ErrInvalidInput)
	}

	now := app.Clock.Now()
	record, err := app.Schedules.Update(ctx, id, func(r *domain.ScheduleRecord) error {
		if updateSessionComplete {
			if err := r.RecordSessionComplete(uptime, now); err != nil {
				return err
			}
		}
		if updateAdjustDays != 0 {
			if err := r.Adjust(updateAdjustDays, updateReason, now); err != nil {
				return err
			}
		}
		if updateNote != "" {
			if err := r.AddNote(updateNote); err != nil {
				return err
			}
		}
		if updateComplete {
			if err := r.Complete(now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if updateSessionComplete {
		if err := app.Metrics.ExportScheduleProgress(ctx, record); err != nil {
			fmt.Fprintf(os.Stderr, "warning: metrics export failed: %v\n", err)
		}
	}
	if updateComplete {
		fmt.Printf("Schedule %s completed and archived\n", record.ScheduleID)
	}

	printSchedule(record, now)
	return nil
}

// resolveUptime picks the booked session's uptime from --uptime or from a
// recorded session's activity log.
func resolveUptime(ctx context.Context, app *AppContext) (time.Duration, error) {
	switch {
	case updateUptime != 0 && updateFromSession != "":
		return 0, fmt.Errorf("%w: --uptime and --from-session are mutually exclusive", domain.ErrInvalidInput)
	case updateUptime != 0:
		if updateUptime < 0 {
			return 0, fmt.Errorf("%w: uptime must be positive, got %s", domain.ErrInvalidInput, updateUptime)
		}
		return updateUptime, nil
	case updateFromSession != "":
		session, err := resolveSession(ctx, app, updateFromSession)
		if err != nil {
			return 0, err
		}
		summary, _, err := summarizeSession(ctx, app, session)
		if err != nil {
			return 0, err
		}
		return summary.Uptime, nil
	default:
		return 0, fmt.Errorf("%w: --session-complete needs --uptime or --from-session", domain.ErrInvalidInput)
	}
}
