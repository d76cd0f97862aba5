package spend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// ParseMonth parses a YYYY-MM report month into the first instant of that month in UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}

// MonthKey returns the YYYY-MM bucket a point in time falls into, in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func PriorMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, -1, 0)
}

// MonthRange returns [start, end) covering the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := MonthStart(t)
	return start, start.AddDate(0, 1, 0)
}

// YTDRange returns [January 1, end of month) for the month containing t.
func YTDRange(t time.Time) (time.Time, time.Time) {
	start := MonthStart(t)
	return time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), start.AddDate(0, 1, 0)
}
