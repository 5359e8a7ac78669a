package events

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const icsDateFormat = "20060102"

// parseICS maps each VEVENT to an Event: UID → ID, SUMMARY → Title,
// DTSTART → Date and StartTime, COLOR (RFC 7986) → Color.
// All-day entries have an empty StartTime.
func parseICS(data []byte) ([]Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS: %w", err)
	}

	vevents := cal.Events()
	out := make([]Event, 0, len(vevents))
	for i, ve := range vevents {
		ev, err := fromVEvent(ve)
		if err != nil {
			return nil, fmt.Errorf("event %d (id %q): %w", i, ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func fromVEvent(ve *ical.VEvent) (Event, error) {
	var ev Event
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.ID = ID(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentProperty("COLOR")); p != nil {
		ev.Color = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, fmt.Errorf("%w: missing DTSTART", ErrInvalidDate)
	}
	raw := strings.TrimSpace(dtStart.Value)
	if isAllDay(dtStart.ICalParameters, raw) {
		day, err := time.Parse(icsDateFormat, raw)
		if err != nil {
			return ev, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		ev.Date = DayOf(day)
		return ev, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	ev.Date = DayOf(start)
	ev.StartTime = start.Format("15:04")
	return ev, nil
}

func isAllDay(params map[string][]string, raw string) bool {
	if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return len(raw) == len(icsDateFormat) && !strings.Contains(raw, "T")
}
