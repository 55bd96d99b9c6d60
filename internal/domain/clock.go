package domain

import (
	"fmt"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"

	MinutesPerDay = 24 * 60
)

// ParseClockTime parses a zero-padded 24-hour "HH:MM" value and returns the
// minutes since midnight.
func ParseClockTime(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}

	h, ok1 := twoDigits(value[0], value[1])
	m, ok2 := twoDigits(value[3], value[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, value)
	}

	return h*60 + m, nil
}

func IsClockTime(value string) bool {
	_, err := ParseClockTime(value)
	return err == nil
}

// FormatClockTime renders minutes since midnight as "HH:MM".
func FormatClockTime(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockKey is the wall-clock minute of t on the local device clock.
func ClockKey(t time.Time) string {
	return t.Format(ClockLayout)
}

// DateKey is the local calendar date of t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
