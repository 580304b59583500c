package domain

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey returns the local calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(dayKeyLayout)
}

// DayBounds returns the half-open window [local midnight, next local
// midnight) for the given day key.
func DayBounds(dayKey string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayKeyLayout, dayKey, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid day key %q: %w", dayKey, err)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// HourBounds returns the half-open window for one local hour of the day.
func HourBounds(dayKey string, hour int) (time.Time, time.Time, error) {
	if hour < 0 || hour > 23 {
		return time.Time{}, time.Time{}, fmt.Errorf("hour %d out of range", hour)
	}
	dayStart, _, err := DayBounds(dayKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := dayStart.Add(time.Duration(hour) * time.Hour)
	return start, start.Add(time.Hour), nil
}

// PreviousDays returns n day keys ending at today, oldest first.
func PreviousDays(today time.Time, n int) []string {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, DayKey(today.AddDate(0, 0, -i)))
	}
	return days
}
