package cli

import (
	"context"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// resolveSession maps a CLI session argument to a stored session. Empty or
// "current" selects the open session.
func resolveSession(ctx context.Context, app *AppContext, id string) (*domain.Session, error) {
	if id == "" || id == "current" {
		return app.Sessions.Current(ctx)
	}
	return app.Sessions.Get(ctx, id)
}

// summarizeSession segments a session's activity log and folds it into the
// three-way time summary. Open sessions are summarized up to the clock's now.
func summarizeSession(ctx context.Context, app *AppContext, session *domain.Session) (domain.SessionTimeSummary, []domain.TimeSegment, error) {
	events, err := app.Activities.ListBySession(ctx, session.ID)
	if err != nil {
		return domain.SessionTimeSummary{}, nil, err
	}

	end := app.Clock.Now()
	if session.EndedAt != nil {
		end = *session.EndedAt
	}

	segments, err := domain.Segment(events, session.StartedAt, end, app.Config.Session.IdleThreshold)
	if err != nil {
		return domain.SessionTimeSummary{}, nil, err
	}

	summary, err := domain.Summarize(segments)
	if err != nil {
		return domain.SessionTimeSummary{}, nil, err
	}
	return summary, segments, nil
}
