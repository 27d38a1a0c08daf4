package domain

import "time"

// CalendarDate is the derived calendar context for a single day. It has no
// persisted identity and is recomputed from the clock on every request.
type CalendarDate struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"day_of_week"`
	ISOYear       int    `json:"iso_year"`
	ISOWeekNumber int    `json:"iso_week_number"`
	WeekStart     string `json:"week_start"`
}

// WeekOf maps a date to its ISO-8601 week: Monday-start weeks, week 1 is
// the week containing the year's first Thursday. The returned year is the
// ISO year, which can differ from the calendar year at year boundaries.
// Pure and total over the supported date range.
func WeekOf(t time.Time) (isoYear, isoWeek int, dayOfWeek time.Weekday) {
	isoYear, isoWeek = t.ISOWeek()
	return isoYear, isoWeek, t.Weekday()
}

// WeekStart returns the Monday that opens the ISO week containing t,
// truncated to midnight in t's location.
func WeekStart(t time.Time) time.Time {
	days := int(t.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7
	}
	monday := t.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// CalendarDateAt derives the calendar context for the given instant.
func CalendarDateAt(t time.Time) CalendarDate {
	isoYear, isoWeek, dow := WeekOf(t)
	return CalendarDate{
		Date:          t.Format(DateLayout),
		DayOfWeek:     dow.String(),
		ISOYear:       isoYear,
		ISOWeekNumber: isoWeek,
		WeekStart:     WeekStart(t).Format(DateLayout),
	}
}
