package domain

import "errors"

// Error taxonomy for the engine. Each sentinel maps to a distinct CLI exit
// code so scripts can branch on the failure category.
var (
	// ErrInvalidInput covers malformed or out-of-order timestamps and
	// other caller mistakes in operation arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration covers bad setup parameters: non-positive idle
	// thresholds, zero-session schedules, and the like.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound is returned when a schedule or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyActive is returned when a non-completed schedule already
	// exists for a work item.
	ErrAlreadyActive = errors.New("active schedule already exists")

	// ErrScheduleCompleted is returned when mutating a completed schedule.
	ErrScheduleCompleted = errors.New("schedule already completed")

	// ErrConcurrentUpdate is returned when the schedule store lock could
	// not be acquired within the bounded wait.
	ErrConcurrentUpdate = errors.New("concurrent schedule update")

	// ErrInvariantViolation signals an internal consistency failure.
	// Treated as a bug, never swallowed.
	ErrInvariantViolation = errors.New("internal invariant violated")
)
