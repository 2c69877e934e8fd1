// Package dateutil works in UTC calendar days, the unit of daily logs,
// habit completions, and streaks.
package dateutil

import "time"

const DateFormat = "2006-01-02"

func Date(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

func Today() time.Time {
	return BeginningOfDay(time.Now())
}

func Yesterday() time.Time {
	return Today().AddDate(0, 0, -1)
}

func BeginningOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// CurrentWeek returns Monday 00:00 UTC of t's ISO week.
func CurrentWeek(t time.Time) time.Time {
	t = BeginningOfDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, 1-weekday)
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}
