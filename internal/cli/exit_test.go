package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/emiliopalmerini/cadence/internal/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, exitNotFound},
		{domain.ErrAlreadyActive, exitAlreadyActive},
		{domain.ErrScheduleCompleted, exitScheduleCompleted},
		{domain.ErrInvalidInput, exitInvalidInput},
		{domain.ErrConfiguration, exitConfiguration},
		{domain.ErrConcurrentUpdate, exitConcurrentUpdate},
		{domain.ErrInvariantViolation, exitInvariant},
		{errors.New("unclassified"), exitNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrScheduleCompleted), exitScheduleCompleted},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
