// Package timeparse normalizes free-form time-of-day text to an hour integer.
package timeparse

import (
	"strconv"
	"strings"
	"time"
)

// Hour extracts the hour of day from a raw cell. Rules apply in order, first
// match wins: a value with a colon parses as HH:MM, an all-digit string longer
// than two characters divides by 100 ("0745" is 7), anything else is read as a
// bare hour integer. Unparseable values and results outside 0-23 yield nil;
// the function never fails.
func Hour(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	var h int
	switch {
	case strings.Contains(s, ":"):
		t, err := time.Parse("15:04", s)
		if err != nil {
			return nil
		}
		h = t.Hour()
	case allDigits(s) && len(s) > 2:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		h = n / 100
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		h = n
	}
	if h < 0 || h > 23 {
		return nil
	}
	return &h
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
