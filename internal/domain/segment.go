package domain

import (
	"fmt"
	"time"
)

// SegmentKind classifies a span of session time.
type SegmentKind string

const (
	// KindUptime is time actively worked: gaps between activity marks at
	// or below the idle threshold.
	KindUptime SegmentKind = "uptime"

	// KindSemiDowntime is time where the session was open but no activity
	// was observed for longer than the idle threshold.
	KindSemiDowntime SegmentKind = "semi_downtime"
)

// DefaultIdleThreshold is the gap length beyond which an open session
// counts as idle rather than actively worked.
const DefaultIdleThreshold = 30 * time.Minute

// TimeSegment is one contiguous span of session time. Segments produced by
// Segment are non-overlapping and together cover [sessionStart, now].
type TimeSegment struct {
	Kind  SegmentKind
	Start time.Time
	End   time.Time
}

// Duration returns the length of the segment.
func (s TimeSegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Segment partitions the window [sessionStart, now] into uptime and
// semi-downtime spans. The session bounds act as synthetic activity marks:
// a gap strictly longer than idleThreshold between consecutive marks is
// semi-downtime, everything else is uptime. A gap exactly equal to the
// threshold still counts as uptime. Adjacent same-kind spans are coalesced.
//
// With no events at all the whole window is a single uptime segment:
// absence of recorded activity does not itself imply idleness, only an
// observed gap does.
//
// Events must be ordered ascending and lie inside the session bounds. A
// disordered stream aborts with ErrInvalidInput; a silently wrong time
// split is worse than a visible failure, so there is no best-effort output.
func Segment(events []ActivityEvent, sessionStart, now time.Time, idleThreshold time.Duration) ([]TimeSegment, error) {
	if idleThreshold <= 0 {
		return nil, fmt.Errorf("%w: idle threshold must be positive, got %s", ErrConfiguration, idleThreshold)
	}
	if now.Before(sessionStart) {
		return nil, fmt.Errorf("%w: now %s precedes session start %s",
			ErrInvalidInput, now.Format(time.RFC3339), sessionStart.Format(time.RFC3339))
	}

	if len(events) == 0 {
		return []TimeSegment{{Kind: KindUptime, Start: sessionStart, End: now}}, nil
	}

	if events[0].Timestamp.Before(sessionStart) {
		return nil, fmt.Errorf("%w: first activity at %s precedes session start %s",
			ErrInvalidInput, events[0].Timestamp.Format(time.RFC3339), sessionStart.Format(time.RFC3339))
	}

	marks := make([]time.Time, 0, len(events)+2)
	marks = append(marks, sessionStart)
	for i, ev := range events {
		if ev.Timestamp.Before(marks[len(marks)-1]) {
			return nil, fmt.Errorf("%w: activity timestamps not monotonic at index %d (%s after %s)",
				ErrInvalidInput, i, marks[len(marks)-1].Format(time.RFC3339), ev.Timestamp.Format(time.RFC3339))
		}
		if ev.Timestamp.After(now) {
			return nil, fmt.Errorf("%w: activity at %s is in the future (now %s)",
				ErrInvalidInput, ev.Timestamp.Format(time.RFC3339), now.Format(time.RFC3339))
		}
		marks = append(marks, ev.Timestamp)
	}
	marks = append(marks, now)

	var segments []TimeSegment
	for i := 1; i < len(marks); i++ {
		prev, next := marks[i-1], marks[i]
		if next.Equal(prev) {
			continue
		}
		kind := KindUptime
		if next.Sub(prev) > idleThreshold {
			kind = KindSemiDowntime
		}
		if n := len(segments); n > 0 && segments[n-1].Kind == kind {
			segments[n-1].End = next
			continue
		}
		segments = append(segments, TimeSegment{Kind: kind, Start: prev, End: next})
	}

	// Degenerate window: session just started and nothing has happened.
	if len(segments) == 0 {
		segments = []TimeSegment{{Kind: KindUptime, Start: sessionStart, End: now}}
	}

	return segments, nil
}
