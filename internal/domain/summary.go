package domain

import (
	"fmt"
	"time"
)

// SessionState is the published current state of a session.
type SessionState string

const (
	StateUptime       SessionState = "UPTIME"
	StateSemiDowntime SessionState = "SEMI-DOWNTIME"
)

// SessionTimeSummary aggregates a segment sequence into the three published
// numbers. WallClock always equals Uptime + SemiDowntime.
type SessionTimeSummary struct {
	WallClock    time.Duration
	Uptime       time.Duration
	SemiDowntime time.Duration
	CurrentState SessionState
}

// Summarize sums segment durations by kind. CurrentState reflects the kind
// of the final segment; an empty sequence yields the zero-duration default
// with state UPTIME.
//
// The segments are expected to be the contiguous, non-overlapping output of
// Segment. If that invariant does not hold, Summarize reports
// ErrInvariantViolation rather than producing a silently wrong sum.
func Summarize(segments []TimeSegment) (SessionTimeSummary, error) {
	summary := SessionTimeSummary{CurrentState: StateUptime}
	if len(segments) == 0 {
		return summary, nil
	}

	for i, seg := range segments {
		if seg.End.Before(seg.Start) {
			return SessionTimeSummary{}, fmt.Errorf("%w: segment %d ends before it starts", ErrInvariantViolation, i)
		}
		if i > 0 && !seg.Start.Equal(segments[i-1].End) {
			return SessionTimeSummary{}, fmt.Errorf("%w: segment %d is not contiguous with its predecessor", ErrInvariantViolation, i)
		}

		switch seg.Kind {
		case KindUptime:
			summary.Uptime += seg.Duration()
		case KindSemiDowntime:
			summary.SemiDowntime += seg.Duration()
		default:
			return SessionTimeSummary{}, fmt.Errorf("%w: segment %d has unknown kind %q", ErrInvariantViolation, i, seg.Kind)
		}
	}

	summary.WallClock = summary.Uptime + summary.SemiDowntime
	if segments[len(segments)-1].Kind == KindSemiDowntime {
		summary.CurrentState = StateSemiDowntime
	}
	return summary, nil
}
