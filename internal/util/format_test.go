package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{45 * time.Second, "45s"},
		{12*time.Minute + 30*time.Second, "12m30s"},
		{3*time.Hour + 5*time.Minute, "3h05m"},
		{52 * time.Hour, "2d4h"},
		{0, "0s"},
		{-5 * time.Second, "0s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.expected {
			t.Errorf("FormatDuration(%s): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		part     time.Duration
		whole    time.Duration
		expected string
	}{
		{30 * time.Minute, time.Hour, "50%"},
		{time.Hour, time.Hour, "100%"},
		{0, time.Hour, "0%"},
		{time.Hour, 0, "0%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.part, tt.whole); got != tt.expected {
			t.Errorf("FormatPercent(%s, %s): expected %q, got %q", tt.part, tt.whole, tt.expected, got)
		}
	}
}
