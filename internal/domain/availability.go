package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDayStart = "09:00"
	defaultDayEnd   = "17:00"
)

// Weekdays lists the availability keys in calendar order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type DayAvailability struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// WeeklyAvailability maps lowercase weekday names to working hours.
type WeeklyAvailability map[string]DayAvailability

type AvailabilityReason string

const (
	AvailabilityNoSchedule     AvailabilityReason = "no_schedule"
	AvailabilityDayUnavailable AvailabilityReason = "day_unavailable"
	AvailabilityWithinHours    AvailabilityReason = "within_hours"
	AvailabilityOutsideHours   AvailabilityReason = "outside_hours"
	AvailabilityMalformedHours AvailabilityReason = "malformed_hours"
)

type AvailabilityDecision struct {
	Admitted bool
	Reason   AvailabilityReason
}

// IsWithinAvailability decides whether candidate falls inside the declared
// working hours for its weekday. An empty schedule and unparseable hours both
// admit the candidate.
func IsWithinAvailability(candidate time.Time, availability WeeklyAvailability) bool {
	return availability.Evaluate(candidate).Admitted
}

func (a WeeklyAvailability) Evaluate(candidate time.Time) AvailabilityDecision {
	if len(a) == 0 {
		return AvailabilityDecision{Admitted: true, Reason: AvailabilityNoSchedule}
	}

	day, ok := a.Day(WeekdayName(candidate.Weekday()))
	if !ok || !day.Enabled {
		return AvailabilityDecision{Admitted: false, Reason: AvailabilityDayUnavailable}
	}

	startStr := day.Start
	if startStr == "" {
		startStr = defaultDayStart
	}
	endStr := day.End
	if endStr == "" {
		endStr = defaultDayEnd
	}

	sh, sm, err := parseClock(startStr)
	if err != nil {
		return AvailabilityDecision{Admitted: true, Reason: AvailabilityMalformedHours}
	}
	eh, em, err := parseClock(endStr)
	if err != nil {
		return AvailabilityDecision{Admitted: true, Reason: AvailabilityMalformedHours}
	}

	y, m, d := candidate.Date()
	loc := candidate.Location()
	dayStart := time.Date(y, m, d, sh, sm, 0, 0, loc)
	dayEnd := time.Date(y, m, d, eh, em, 0, 0, loc)

	if !candidate.Before(dayStart) && candidate.Before(dayEnd) {
		return AvailabilityDecision{Admitted: true, Reason: AvailabilityWithinHours}
	}
	return AvailabilityDecision{Admitted: false, Reason: AvailabilityOutsideHours}
}

// Day looks up a weekday entry, tolerating keys stored with different casing.
func (a WeeklyAvailability) Day(name string) (DayAvailability, bool) {
	if d, ok := a[name]; ok {
		return d, true
	}
	for k, d := range a {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return d, true
		}
	}
	return DayAvailability{}, false
}

// WeekdayName returns the locale-invariant lowercase English day name.
func WeekdayName(wd time.Weekday) string {
	if wd == time.Sunday {
		return Weekdays[6]
	}
	return Weekdays[int(wd)-1]
}

// IsWeekdayName reports whether name is one of the seven availability keys.
func IsWeekdayName(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

var errMalformedClock = errors.New("malformed clock value")

func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, errMalformedClock
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errMalformedClock
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errMalformedClock
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, errMalformedClock
	}
	return h, m, nil
}
