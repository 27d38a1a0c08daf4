package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Session time awareness and work schedule tracking",
	Long: `cadence partitions session time into active uptime and idle semi-downtime,
and tracks work schedules with planned-vs-actual velocity.

Record activity as it happens, then ask where the time went and whether the
current work item is still on pace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing a single-line error and exiting
// with the category's exit code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(sessionTimeCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(migrateCmd)
}
