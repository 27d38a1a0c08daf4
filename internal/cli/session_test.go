package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

func TestSessionStartAndEnd(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	if err := runSessionStart(ctx, app); err != nil {
		t.Fatalf("runSessionStart() error = %v", err)
	}

	session, err := app.Sessions.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !session.StartedAt.Equal(testNow) {
		t.Errorf("StartedAt = %v, want %v", session.StartedAt, testNow)
	}

	setClock(app, testNow.Add(45*time.Minute))
	if err := runSessionEnd(ctx, app); err != nil {
		t.Fatalf("runSessionEnd() error = %v", err)
	}

	ended, err := app.Sessions.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ended.Open() {
		t.Error("session still open after end")
	}
}

func TestSessionStartWhileOpen(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	if err := runSessionStart(ctx, app); err != nil {
		t.Fatalf("first runSessionStart() error = %v", err)
	}

	err := runSessionStart(ctx, app)
	if !errors.Is(err, domain.ErrAlreadyActive) {
		t.Errorf("second start error = %v, want ErrAlreadyActive", err)
	}
	if got := exitCode(err); got != exitAlreadyActive {
		t.Errorf("exitCode = %d, want %d", got, exitAlreadyActive)
	}
}

func TestSessionEndWithoutOpen(t *testing.T) {
	app := testApp(t)

	err := runSessionEnd(context.Background(), app)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("runSessionEnd() error = %v, want ErrNotFound", err)
	}
}

func TestActivityRecord(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	if err := runSessionStart(ctx, app); err != nil {
		t.Fatalf("runSessionStart() error = %v", err)
	}

	setClock(app, testNow.Add(5*time.Minute))
	if err := runActivityRecord(ctx, app, "Edit", "main.go"); err != nil {
		t.Fatalf("runActivityRecord() error = %v", err)
	}

	session, err := app.Sessions.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	events, err := app.Activities.ListBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Tool != "Edit" || events[0].Detail != "main.go" {
		t.Errorf("event = %+v, want Edit/main.go", events[0])
	}
}

func TestActivityRecordWithoutSession(t *testing.T) {
	app := testApp(t)

	err := runActivityRecord(context.Background(), app, "Edit", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("runActivityRecord() error = %v, want ErrNotFound", err)
	}
}

func TestActivityRecordEmptyTool(t *testing.T) {
	app := testApp(t)

	err := runActivityRecord(context.Background(), app, "  ", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("runActivityRecord() error = %v, want ErrInvalidInput", err)
	}
}

func TestReadHookPayload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTool string
		wantErr  error
	}{
		{
			name:     "valid payload",
			input:    `{"tool_name": "Bash", "detail": "go test"}`,
			wantTool: "Bash",
		},
		{
			name:    "missing tool name",
			input:   `{"detail": "orphan"}`,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "not json",
			input:   `tool=Bash`,
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := readHookPayload(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.ToolName != tt.wantTool {
				t.Errorf("ToolName = %q, want %q", payload.ToolName, tt.wantTool)
			}
		})
	}
}

func TestSessionTimeBreakdown(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	if err := runSessionStart(ctx, app); err != nil {
		t.Fatalf("runSessionStart() error = %v", err)
	}
	session, err := app.Sessions.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	// Activity at +10m and +60m with a 30m threshold: the 50m gap is
	// semi-downtime past the threshold.
	for _, offset := range []time.Duration{10 * time.Minute, 60 * time.Minute} {
		setClock(app, testNow.Add(offset))
		if err := runActivityRecord(ctx, app, "Edit", ""); err != nil {
			t.Fatalf("runActivityRecord() error = %v", err)
		}
	}

	setClock(app, testNow.Add(70*time.Minute))
	summary, _, err := summarizeSession(ctx, app, session)
	if err != nil {
		t.Fatalf("summarizeSession() error = %v", err)
	}

	if summary.WallClock != 70*time.Minute {
		t.Errorf("WallClock = %v, want 70m", summary.WallClock)
	}
	if summary.Uptime+summary.SemiDowntime != summary.WallClock {
		t.Errorf("partition leaks: %v + %v != %v", summary.Uptime, summary.SemiDowntime, summary.WallClock)
	}
	if summary.SemiDowntime == 0 {
		t.Error("expected semi-downtime for the 50m idle gap")
	}
}
