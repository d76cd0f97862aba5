package spend

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseMonth = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2024-13", "2024-00", "2024-3", "March 2024", "2024/03"} {
		if _, err := ParseMonth(bad); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("ParseMonth(%q) error = %v, want ErrInvalidMonth", bad, err)
		}
	}
}

func TestMonthWindows(t *testing.T) {
	march := time.Date(2024, time.March, 17, 15, 4, 5, 0, time.UTC)

	if got := MonthKey(march); got != "2024-03" {
		t.Errorf("MonthKey = %q", got)
	}
	if got := PriorMonth(march); !got.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PriorMonth = %v", got)
	}
	if got := PriorMonth(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)); MonthKey(got) != "2023-12" {
		t.Errorf("PriorMonth across year = %v", got)
	}

	start, end := MonthRange(march)
	if MonthKey(start) != "2024-03" || MonthKey(end) != "2024-04" || start.Day() != 1 || end.Day() != 1 {
		t.Errorf("MonthRange = %v .. %v", start, end)
	}

	start, end = YTDRange(march)
	if !start.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("YTD start = %v", start)
	}
	if !end.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("YTD end = %v", end)
	}
}

func TestMonthKey_UsesUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	lateNight := time.Date(2024, time.January, 31, 22, 0, 0, 0, est)
	if got := MonthKey(lateNight); got != "2024-02" {
		t.Errorf("MonthKey = %q, want 2024-02", got)
	}
}
