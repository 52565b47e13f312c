package stats

import "time"

// Day truncates t to its calendar date at midnight UTC. Every date handled by
// this package goes through Day so that set membership and day arithmetic
// never see a time-of-day or zone component.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Sunday on or before d.
func WeekStart(d time.Time) time.Time {
	d = Day(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday on or after d.
func WeekEnd(d time.Time) time.Time {
	return WeekStart(d).AddDate(0, 0, 6)
}
