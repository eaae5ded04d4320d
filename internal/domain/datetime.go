package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
	// ISOLayout is the zone-less encoding used by the persistence collaborators.
	ISOLayout = "2006-01-02T15:04:05"
)

var ErrInvalidDateTime = errors.New("invalid date or time")

// Naive drops the location of t, keeping its wall clock. Appointment times
// are compared as naive local values, so every clock reading goes through here.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseDateTime combines a YYYY-MM-DD date and an HH:MM time into a naive
// minute-precision date-time.
func ParseDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	t, err := time.Parse(DateTimeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD filter value.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatISO encodes t without zone information.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseISO accepts the zone-less encoding plus the space-separated and
// fractional-second variants the legacy file format produced.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ISOLayout, "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}
