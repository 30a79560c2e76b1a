package collector

import "time"

// roundToDayStart returns midnight UTC of the given time's day
func roundToDayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Window returns the closed range of whole UTC days ending yesterday.
// End is 23:59:59.999999 of the day before now, start is midnight
// of the day daysToCollect days before end.
func Window(now time.Time, daysToCollect int) (start, end time.Time) {
	end = roundToDayStart(now).Add(-time.Microsecond)
	start = roundToDayStart(end.AddDate(0, 0, -daysToCollect))
	return start, end
}
