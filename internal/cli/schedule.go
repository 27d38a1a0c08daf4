package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Track work item schedules",
	Long: `Track a work item's schedule: the plan made at the start, the sessions
booked against it, and the drift between planned and actual pace.`,
}

func init() {
	scheduleCmd.AddCommand(scheduleInitCmd)
	scheduleCmd.AddCommand(scheduleCheckCmd)
	scheduleCmd.AddCommand(scheduleUpdateCmd)
}

// printSchedule renders a record the same way for init, check, and update.
func printSchedule(record *domain.ScheduleRecord, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Work item:\t%s (%s)\n", record.WorkItem, record.ScheduleID)
	fmt.Fprintf(w, "Status:\t%s\n", record.Status)
	fmt.Fprintf(w, "Dates:\t%s -> %s", record.StartDate, record.EstimatedEndDate)
	if record.ActualEndDate != nil {
		fmt.Fprintf(w, " (ended %s)", *record.ActualEndDate)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sessions:\t%d of %d (%.0f%%), next is #%d\n",
		record.Progress.SessionsCompleted, record.Estimates.TotalSessions,
		record.PercentComplete(), record.Progress.CurrentSessionNumber)
	fmt.Fprintf(w, "Days:\t%d of %d elapsed\n", record.Progress.DaysElapsed, record.Estimates.TotalDays)
	fmt.Fprintf(w, "Uptime:\t%.2fh of %dh planned\n", record.Progress.UptimeHoursActual, record.Estimates.TotalUptimeHours)
	fmt.Fprintf(w, "Velocity:\t%.2f sessions/week planned, %.2fh/session planned, %.2fh/session actual\n",
		record.Velocity.PlannedSessionsPerWeek,
		record.Velocity.PlannedUptimePerSession,
		record.Velocity.ActualUptimePerSession)
	if len(record.Adjustments) > 0 {
		fmt.Fprintf(w, "Adjustments:\t%d\n", len(record.Adjustments))
	}
	for _, note := range record.Notes {
		fmt.Fprintf(w, "Note:\t%s\n", note)
	}
	w.Flush()

	if drift := record.Drift(now); drift != nil {
		fmt.Printf("WARNING: at the current pace this lands on %s, %d days past %s (%.1f projected days remaining)\n",
			drift.ProjectedEndDate, drift.DaysLate, drift.EstimatedEndDate, drift.ProjectedDaysRemaining)
	}
}
