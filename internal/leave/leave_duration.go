package leave

import (
	"fmt"
	"math"
	"time"
)

// combineClock attaches an HH:MM wall-clock to a date. The time strings
// come from a VARCHAR(5) column, so anything that does not parse is an
// input error rather than a silent midnight.
func combineClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// ComputeDurationHours is the naive elapsed-time calculation used when
// the caller does not supply an explicit duration: end datetime minus
// start datetime in minutes, divided by 60. Missing clock times fall
// back to the configured working day bounds. The result is floored at
// zero and rounded to two decimals. Weekends and holidays inside the
// span are deliberately not taken into account; callers that want an
// inclusive day count use CalendarDays instead.
func ComputeDurationHours(startDate, endDate time.Time, startTime, endTime, defaultStart, defaultEnd string) (float64, error) {
	if startTime == "" {
		startTime = defaultStart
	}
	if endTime == "" {
		endTime = defaultEnd
	}

	start, err := combineClock(startDate, startTime)
	if err != nil {
		return 0, err
	}
	end, err := combineClock(endDate, endTime)
	if err != nil {
		return 0, err
	}

	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	return round2(minutes / 60), nil
}

// CalendarDays is the inclusive whole-day count of a date range:
// end minus start plus one. A single-day request counts as 1.
func CalendarDays(startDate, endDate time.Time) int {
	start := startDate.Truncate(24 * time.Hour)
	end := endDate.Truncate(24 * time.Hour)
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// HoursToDays converts an hour duration to a day count against the
// configured working-day length.
func HoursToDays(hours, workHoursPerDay float64) float64 {
	return hours / workHoursPerDay
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
