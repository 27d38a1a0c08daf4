package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/clock"
	"github.com/emiliopalmerini/cadence/internal/domain"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's calendar context",
	Long: `Show today's date, weekday, and ISO-8601 week. Weeks start on Monday
and week numbering follows ISO 8601, so the week's year can differ from the
calendar year around new year.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clk := clock.Clock(clock.System{})
		if testAppOverride != nil {
			clk = testAppOverride.Clock
		}
		return runToday(clk, todayJSON)
	},
}

// Flags
var todayJSON bool

func init() {
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "emit the calendar context as JSON")
}

func runToday(clk clock.Clock, asJSON bool) error {
	day := domain.CalendarDateAt(clk.Now())

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(day)
	}

	fmt.Printf("%s (%s)\n", day.Date, day.DayOfWeek)
	fmt.Printf("ISO week %d-W%02d, started %s\n", day.ISOYear, day.ISOWeekNumber, day.WeekStart)
	return nil
}
