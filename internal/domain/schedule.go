package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ScheduleStatus is the lifecycle state of a schedule record. Transitions
// only move forward: planned -> in_progress -> completed.
type ScheduleStatus string

const (
	StatusPlanned    ScheduleStatus = "planned"
	StatusInProgress ScheduleStatus = "in_progress"
	StatusCompleted  ScheduleStatus = "completed"
)

// DateLayout is the calendar-date format used throughout the schedule
// record and its persisted form.
const DateLayout = "2006-01-02"

// ScheduleRecord is one tracked work item's plan and running progress.
// Estimates are fixed at creation; Progress fields only ever grow;
// Adjustments is an append-only audit trail.
type ScheduleRecord struct {
	ScheduleID       string         `json:"schedule_id"`
	WorkItem         string         `json:"work_item"`
	Status           ScheduleStatus `json:"status"`
	StartDate        string         `json:"start_date"`
	EstimatedEndDate string         `json:"estimated_end_date"`
	ActualEndDate    *string        `json:"actual_end_date"`
	Estimates        Estimates      `json:"estimates"`
	Progress         Progress       `json:"progress"`
	Velocity         Velocity       `json:"velocity"`
	Adjustments      []Adjustment   `json:"adjustments"`
	Notes            []string       `json:"notes"`
}

// Estimates is the plan set at creation, read-only thereafter.
type Estimates struct {
	TotalDays               int `json:"total_days"`
	TotalSessions           int `json:"total_sessions"`
	TotalUptimeHours        int `json:"total_uptime_hours"`
	AvgSessionUptimeMinutes int `json:"avg_session_uptime_minutes"`
}

// Progress tracks actuals. All fields are monotonically non-decreasing and
// updated only through the record's methods.
type Progress struct {
	DaysElapsed          int     `json:"days_elapsed"`
	SessionsCompleted    int     `json:"sessions_completed"`
	UptimeHoursActual    float64 `json:"uptime_hours_actual"`
	CurrentSessionNumber int     `json:"current_session_number"`
}

// Velocity compares planned and actual pace. Uptime-per-session figures
// are hours; actuals are running averages rounded to 2 decimal places.
type Velocity struct {
	PlannedSessionsPerWeek  float64 `json:"planned_sessions_per_week"`
	PlannedUptimePerSession float64 `json:"planned_uptime_per_session"`
	ActualUptimePerSession  float64 `json:"actual_uptime_per_session"`
}

// Adjustment is one entry in the append-only audit trail of estimate
// revisions.
type Adjustment struct {
	Date       string `json:"date"`
	Reason     string `json:"reason"`
	Adjustment string `json:"adjustment"`
}

// Drift is the advisory projection computed on read. It never mutates the
// record; acting on it is an explicit caller decision.
type Drift struct {
	ProjectedDaysRemaining float64 `json:"projected_days_remaining"`
	ProjectedEndDate       string  `json:"projected_end_date"`
	EstimatedEndDate       string  `json:"estimated_end_date"`
	DaysLate               int     `json:"days_late"`
}

// NewScheduleRecord creates a planned schedule for a work item. When
// totalUptimeHours is zero the plan assumes one hour per session.
func NewScheduleRecord(workItem string, totalDays, totalSessions, totalUptimeHours int, now time.Time) (*ScheduleRecord, error) {
	workItem = strings.TrimSpace(workItem)
	if workItem == "" {
		return nil, fmt.Errorf("%w: work item name is required", ErrConfiguration)
	}
	if totalDays <= 0 {
		return nil, fmt.Errorf("%w: total days must be positive, got %d", ErrConfiguration, totalDays)
	}
	if totalSessions <= 0 {
		return nil, fmt.Errorf("%w: total sessions must be positive, got %d", ErrConfiguration, totalSessions)
	}
	if totalUptimeHours < 0 {
		return nil, fmt.Errorf("%w: total uptime hours must not be negative, got %d", ErrConfiguration, totalUptimeHours)
	}
	if totalUptimeHours == 0 {
		totalUptimeHours = totalSessions
	}

	avgMinutes := totalUptimeHours * 60 / totalSessions

	return &ScheduleRecord{
		ScheduleID:       Slugify(workItem),
		WorkItem:         workItem,
		Status:           StatusPlanned,
		StartDate:        now.Format(DateLayout),
		EstimatedEndDate: now.AddDate(0, 0, totalDays).Format(DateLayout),
		Estimates: Estimates{
			TotalDays:               totalDays,
			TotalSessions:           totalSessions,
			TotalUptimeHours:        totalUptimeHours,
			AvgSessionUptimeMinutes: avgMinutes,
		},
		Progress: Progress{
			CurrentSessionNumber: 1,
		},
		Velocity: Velocity{
			PlannedSessionsPerWeek:  round2(float64(totalSessions) * 7 / float64(totalDays)),
			PlannedUptimePerSession: round2(float64(avgMinutes) / 60),
		},
		Adjustments: []Adjustment{},
		Notes:       []string{},
	}, nil
}

// RecordSessionComplete books one finished session against the schedule and
// recomputes the actual-velocity running average. It advances days elapsed
// from the clock but never moves the estimated end date; drift handling is
// the caller's decision via Adjust.
func (r *ScheduleRecord) RecordSessionComplete(actualUptime time.Duration, now time.Time) error {
	if r.Status == StatusCompleted {
		return fmt.Errorf("%w: %s", ErrScheduleCompleted, r.ScheduleID)
	}
	if actualUptime <= 0 {
		return fmt.Errorf("%w: session uptime must be positive, got %s", ErrInvalidInput, actualUptime)
	}

	r.Progress.SessionsCompleted++
	r.Progress.CurrentSessionNumber++
	r.Progress.UptimeHoursActual = round2(r.Progress.UptimeHoursActual + actualUptime.Hours())
	r.Velocity.ActualUptimePerSession = round2(r.Progress.UptimeHoursActual / float64(r.Progress.SessionsCompleted))

	if days := r.daysSinceStart(now); days > r.Progress.DaysElapsed {
		r.Progress.DaysElapsed = days
	}
	if r.Status == StatusPlanned {
		r.Status = StatusInProgress
	}
	return nil
}

// Adjust shifts the estimated end date by deltaDays and appends an audit
// entry. This is the only sanctioned way to change the projected end date.
func (r *ScheduleRecord) Adjust(deltaDays int, reason string, now time.Time) error {
	if r.Status == StatusCompleted {
		return fmt.Errorf("%w: %s", ErrScheduleCompleted, r.ScheduleID)
	}
	if deltaDays == 0 {
		return fmt.Errorf("%w: adjustment delta must not be zero", ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: adjustment reason is required", ErrInvalidInput)
	}

	oldEnd, err := time.Parse(DateLayout, r.EstimatedEndDate)
	if err != nil {
		return fmt.Errorf("%w: estimated end date %q is not a valid date", ErrInvariantViolation, r.EstimatedEndDate)
	}
	newEnd := oldEnd.AddDate(0, 0, deltaDays).Format(DateLayout)

	r.Adjustments = append(r.Adjustments, Adjustment{
		Date:       now.Format(DateLayout),
		Reason:     reason,
		Adjustment: fmt.Sprintf("estimated end date %s -> %s (%+d days)", r.EstimatedEndDate, newEnd, deltaDays),
	})
	r.EstimatedEndDate = newEnd
	return nil
}

// AddNote appends a free-form note to the record.
func (r *ScheduleRecord) AddNote(note string) error {
	if r.Status == StatusCompleted {
		return fmt.Errorf("%w: %s", ErrScheduleCompleted, r.ScheduleID)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	r.Notes = append(r.Notes, note)
	return nil
}

// Complete finalizes the record. Progress and velocity are fixed as of this
// call and no further mutations are accepted.
func (r *ScheduleRecord) Complete(now time.Time) error {
	if r.Status == StatusCompleted {
		return fmt.Errorf("%w: %s", ErrScheduleCompleted, r.ScheduleID)
	}
	if days := r.daysSinceStart(now); days > r.Progress.DaysElapsed {
		r.Progress.DaysElapsed = days
	}
	end := now.Format(DateLayout)
	r.ActualEndDate = &end
	r.Status = StatusCompleted
	return nil
}

// Drift projects the remaining work at the observed velocity and reports a
// warning when completion would land past the estimated end date. Returns
// nil while there is no actual-velocity data, once the schedule is
// completed, or when the projection is on pace. Read-only.
func (r *ScheduleRecord) Drift(today time.Time) *Drift {
	if r.Status == StatusCompleted || r.Progress.SessionsCompleted == 0 {
		return nil
	}
	if r.Velocity.PlannedUptimePerSession <= 0 || r.Velocity.PlannedSessionsPerWeek <= 0 {
		return nil
	}

	remaining := r.Estimates.TotalSessions - r.Progress.SessionsCompleted
	if remaining <= 0 {
		return nil
	}

	pace := r.Velocity.ActualUptimePerSession / r.Velocity.PlannedUptimePerSession
	projectedDays := float64(remaining) * pace / r.Velocity.PlannedSessionsPerWeek * 7

	estEnd, err := time.Parse(DateLayout, r.EstimatedEndDate)
	if err != nil {
		return nil
	}
	projectedEnd := today.AddDate(0, 0, int(math.Ceil(projectedDays)))
	if !projectedEnd.After(estEnd) {
		return nil
	}

	return &Drift{
		ProjectedDaysRemaining: round2(projectedDays),
		ProjectedEndDate:       projectedEnd.Format(DateLayout),
		EstimatedEndDate:       r.EstimatedEndDate,
		DaysLate:               int(projectedEnd.Sub(estEnd).Hours() / 24),
	}
}

// PercentComplete reports session progress against the plan.
func (r *ScheduleRecord) PercentComplete() float64 {
	if r.Estimates.TotalSessions == 0 {
		return 0
	}
	return float64(r.Progress.SessionsCompleted) / float64(r.Estimates.TotalSessions) * 100
}

func (r *ScheduleRecord) daysSinceStart(now time.Time) int {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return r.Progress.DaysElapsed
	}
	return int(now.Sub(start).Hours() / 24)
}

// Slugify derives a stable schedule ID from a work item name: lowercase,
// spaces to hyphens, everything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "-")
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
