package utils

import "time"

// CivilDate truncates t to midnight of its calendar day in loc.
// All "same day" decisions in the scan flow are made against this value,
// never against server-local time.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	tl := t.In(loc)
	return time.Date(tl.Year(), tl.Month(), tl.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the [startOfDay, endOfDay) window containing t,
// evaluated in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := CivilDate(t, loc)
	return start, start.AddDate(0, 0, 1)
}
