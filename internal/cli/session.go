package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
	"github.com/emiliopalmerini/cadence/internal/util"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage working sessions",
	Long:  `Start and end working sessions. Activity is recorded against the open session.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new working session",
	Long: `Start a new working session. Only one session can be open at a time;
starting while another session is open fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return runSessionStart(cmd.Context(), app)
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the open working session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return runSessionEnd(cmd.Context(), app)
	},
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
}

func runSessionStart(ctx context.Context, app *AppContext) error {
	current, err := app.Sessions.Current(ctx)
	if err == nil {
		return fmt.Errorf("%w: session %s is still open", domain.ErrAlreadyActive, current.ID)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	session := &domain.Session{
		ID:        uuid.New().String(),
		StartedAt: app.Clock.Now(),
	}
	if err := app.Sessions.Create(ctx, session); err != nil {
		return err
	}

	fmt.Printf("Session %s started at %s\n", session.ID, session.StartedAt.Format("15:04:05"))
	return nil
}

func runSessionEnd(ctx context.Context, app *AppContext) error {
	session, err := app.Sessions.Current(ctx)
	if err != nil {
		return err
	}

	endedAt := app.Clock.Now()
	if err := app.Sessions.End(ctx, session.ID, endedAt); err != nil {
		return err
	}
	session.EndedAt = &endedAt

	summary, _, err := summarizeSession(ctx, app, session)
	if err != nil {
		return err
	}
	if err := app.Metrics.ExportSessionTime(ctx, summary); err != nil {
		fmt.Fprintf(os.Stderr, "warning: metrics export failed: %v\n", err)
	}

	fmt.Printf("Session %s ended: %s wall clock, %s uptime, %s semi-downtime\n",
		session.ID,
		util.FormatDuration(summary.WallClock),
		util.FormatDuration(summary.Uptime),
		util.FormatDuration(summary.SemiDowntime),
	)
	return nil
}
