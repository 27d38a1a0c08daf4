package domain

import "time"

// ActivityEvent is one observed unit of work within a session: a tool
// invocation, a submitted prompt, a command. Events are append-only and
// never mutated after capture.
type ActivityEvent struct {
	ID        int64
	SessionID string
	Timestamp time.Time
	Tool      string
	Detail    string
}

// Session marks the wall-clock bounds of one working session. EndedAt is
// nil while the session is still open.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Open reports whether the session has not been ended yet.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}
