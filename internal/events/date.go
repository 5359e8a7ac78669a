package events

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate reads an ISO 8601 date or date-time and returns the calendar day
// as written, anchored by DayOf. Any zone offset is ignored for bucketing:
// "2024-02-15T23:30:00-08:00" is February 15th.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return DayOf(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// DayOf drops the time of day, keeping the calendar date t reads as in its
// own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return CivilDay(y, m, d)
}

// CivilDay returns noon of the given date in time.Local. Midnight does not
// exist on days where DST starts at 00:00, noon always does.
func CivilDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OnDay returns the events dated on day, preserving their relative order.
// The result is nil when nothing matches.
func OnDay(evs []Event, day time.Time) []Event {
	var out []Event
	for _, ev := range evs {
		if SameDay(ev.Date, day) {
			out = append(out, ev)
		}
	}
	return out
}
