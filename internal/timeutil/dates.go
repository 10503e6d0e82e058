package timeutil

import "time"

// Billing works on calendar dates, not instants; everything here operates
// in UTC at midnight.

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return StartOfDay(time.Now().UTC())
}

// StartOfDay truncates a time to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the given month.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether two dates fall in the same year and month,
// ignoring the day.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysUntil returns the number of whole days from today until the given
// date. Negative when the date has passed.
func DaysUntil(today, date time.Time) int {
	return int(StartOfDay(date).Sub(StartOfDay(today)).Hours() / 24)
}

const (
	DateLayout   = "2006-01-02"
	PeriodLayout = "January 2006"
)
