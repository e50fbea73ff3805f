package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses an HH:MM clock string into hours and minutes.
func ParseClock(clock string) (int, int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock string: %q", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("invalid hours in clock string: %q", clock)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid minutes in clock string: %q", clock)
	}

	return hours, minutes, nil
}

// CombineDateAndClock returns the instant on date's calendar day at the given
// HH:MM clock time, in date's location.
func CombineDateAndClock(date time.Time, clock string) (time.Time, error) {
	hours, minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		hours, minutes, 0, 0,
		date.Location(),
	), nil
}

// AddMinutesToClock adds a minute offset to an HH:MM clock string, wrapping
// past midnight.
func AddMinutesToClock(clock string, minutes int) (string, error) {
	hours, mins, err := ParseClock(clock)
	if err != nil {
		return "", err
	}

	total := hours*60 + mins + minutes
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}

	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// Midnight truncates an instant to the start of its calendar day.
func Midnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DayBounds returns the start of date's calendar day and the start of the
// following day, for half-open range queries.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
