package cli

import (
	"errors"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

// Exit codes, one per error category, so scripts can branch on the kind of
// failure.
const (
	exitNotFound          = 1
	exitAlreadyActive     = 2
	exitScheduleCompleted = 3
	exitInvalidInput      = 4
	exitConfiguration     = 5
	exitConcurrentUpdate  = 6
	exitInvariant         = 7
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlreadyActive):
		return exitAlreadyActive
	case errors.Is(err, domain.ErrScheduleCompleted):
		return exitScheduleCompleted
	case errors.Is(err, domain.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, domain.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return exitConcurrentUpdate
	case errors.Is(err, domain.ErrInvariantViolation):
		return exitInvariant
	default:
		// ErrNotFound and anything unexpected.
		return exitNotFound
	}
}
