// Package clock abstracts the wall clock so commands stay deterministic in
// tests.
package clock

import "time"

// Clock supplies the current instant in the local timezone.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed returns a Clock pinned to a single instant.
func Fixed(t time.Time) Clock {
	return fixed{t: t}
}

type fixed struct {
	t time.Time
}

func (f fixed) Now() time.Time {
	return f.t
}
