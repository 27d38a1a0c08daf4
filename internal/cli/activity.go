package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record activity against the open session",
}

var activityRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one activity event",
	Long: `Record one activity event against the open session.

The event can be given as flags, or as a hook payload on stdin so the
command can be wired into an editor or agent hook:

  echo '{"tool_name": "Edit", "detail": "main.go"}' | cadence activity record`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		tool, detail := activityTool, activityDetail
		if tool == "" {
			payload, err := readHookPayload(cmd.InOrStdin())
			if err != nil {
				return err
			}
			tool, detail = payload.ToolName, payload.Detail
		}
		return runActivityRecord(cmd.Context(), app, tool, detail)
	},
}

// Flags
var (
	activityTool   string
	activityDetail string
)

func init() {
	activityRecordCmd.Flags().StringVar(&activityTool, "tool", "", "tool or action name (reads hook payload from stdin when omitted)")
	activityRecordCmd.Flags().StringVar(&activityDetail, "detail", "", "free-form event detail")
	activityCmd.AddCommand(activityRecordCmd)
}

// hookPayload is the JSON shape accepted on stdin.
type hookPayload struct {
	ToolName string `json:"tool_name"`
	Detail   string `json:"detail"`
}

func readHookPayload(in io.Reader) (*hookPayload, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}

	var payload hookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid hook payload: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(payload.ToolName) == "" {
		return nil, fmt.Errorf("%w: hook payload has no tool_name", domain.ErrInvalidInput)
	}
	return &payload, nil
}

func runActivityRecord(ctx context.Context, app *AppContext, tool, detail string) error {
	if strings.TrimSpace(tool) == "" {
		return fmt.Errorf("%w: tool name is required", domain.ErrInvalidInput)
	}

	session, err := app.Sessions.Current(ctx)
	if err != nil {
		return err
	}

	event := &domain.ActivityEvent{
		SessionID: session.ID,
		Timestamp: app.Clock.Now(),
		Tool:      tool,
		Detail:    detail,
	}
	if event.Timestamp.Before(session.StartedAt) {
		return fmt.Errorf("%w: event timestamp precedes session start", domain.ErrInvalidInput)
	}
	if err := app.Activities.Append(ctx, event); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Recorded %s at %s\n", tool, event.Timestamp.Format("15:04:05"))
	return nil
}
