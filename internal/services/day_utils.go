package services

import "time"

const dayKeyLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayKey(value time.Time) string {
	return value.Format(dayKeyLayout)
}

func ParseDayKey(value string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	return time.ParseInLocation(dayKeyLayout, value, location)
}

// DaysBetween counts whole days from a to b on the calendar, ignoring
// clock time. Rounding absorbs the 23h and 25h days that DST transitions
// produce in non-UTC locations.
func DaysBetween(a, b time.Time, location *time.Location) int {
	dayA := DateAtLocation(a, location)
	dayB := DateAtLocation(b, location)
	hours := dayB.Sub(dayA).Hours()
	if hours < 0 {
		return int(hours/24 - 0.5)
	}
	return int(hours/24 + 0.5)
}
