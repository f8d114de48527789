package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "colcal/internal/log"
	"colcal/internal/model"
)

const (
	icalDate      = "20060102"
	icalLocalTime = "20060102T150405"
	icalUTCTime   = "20060102T150405Z"
)

// ParsedEvent is one VEVENT before recurrence expansion. Base holds the
// event's own DTSTART/DTEND instance in the event's timezone.
type ParsedEvent struct {
	Base model.Occurrence

	// RawRRule is the RRULE value, empty for single events.
	RawRRule string
	ExDates  []time.Time

	// RecurrenceID is set on overrides of a single recurring instance.
	RecurrenceID *time.Time
}

// Parse decodes an ICS payload and expands it into the occurrences that
// overlap [from, to), expressed in loc.
func Parse(src Source, body []byte, from, to time.Time, loc *time.Location) ([]model.Occurrence, error) {
	events, err := ParseEvents(src, body, loc)
	if err != nil {
		return nil, err
	}
	return Expand(events, from, to, loc), nil
}

// ParseEvents decodes every VEVENT of an ICS payload. Floating times and
// all-day dates are read in loc. A VEVENT that cannot be read is logged and
// skipped.
func ParseEvents(src Source, body []byte, loc *time.Location) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %q: %w", src.ID, err)
	}

	out := make([]ParsedEvent, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(src, ve, loc)
		if err != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "cause", err)
			continue
		}
		out = append(out, ev)
	}

	appLog.Debug("ics parsed", "id", src.ID, "events", len(out))
	return out, nil
}

func parseVEvent(src Source, ve *ical.VEvent, loc *time.Location) (ParsedEvent, error) {
	var ev ParsedEvent
	occ := model.Occurrence{SourceID: src.ID}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		occ.UID = p.Value
	}
	if occ.UID == "" {
		return ev, errors.New("missing UID")
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		occ.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		occ.Location = p.Value
	}
	// RFC 7986 COLOR carries a CSS color name.
	if p := ve.GetProperty(ical.ComponentPropertyColor); p != nil {
		occ.Color = strings.TrimSpace(p.Value)
	}

	dt := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dt == nil {
		return ev, errors.New("missing DTSTART")
	}
	start, allDay, err := propTime(dt.Value, dt.ICalParameters, loc)
	if err != nil {
		return ev, fmt.Errorf("DTSTART: %w", err)
	}
	occ.Start = start
	occ.AllDay = allDay || isDateValue(dt.ICalParameters)

	switch end := ve.GetProperty(ical.ComponentPropertyDtEnd); {
	case end != nil:
		et, _, err := propTime(end.Value, end.ICalParameters, loc)
		if err != nil {
			return ev, fmt.Errorf("DTEND: %w", err)
		}
		occ.End = et
	case occ.AllDay:
		occ.End = occ.Start.AddDate(0, 0, 1)
	default:
		return ev, errors.New("missing DTEND")
	}
	ev.Base = occ

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RawRRule = strings.TrimSpace(p.Value)
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, v := range strings.Split(p.Value, ",") {
			t, _, err := propTime(v, p.ICalParameters, loc)
			if err != nil {
				appLog.Warn("ics exdate skipped", "id", src.ID, "uid", occ.UID, "value", v)
				continue
			}
			ev.ExDates = append(ev.ExDates, t)
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		rid, _, err := propTime(p.Value, p.ICalParameters, loc)
		if err != nil {
			return ev, fmt.Errorf("RECURRENCE-ID: %w", err)
		}
		ev.RecurrenceID = &rid
	}
	return ev, nil
}

// propTime reads a DATE or DATE-TIME value. UTC values end in Z; values
// with a TZID are read in that zone; floating values and dates in loc.
func propTime(value string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	v := strings.TrimSpace(value)
	switch {
	case len(v) == len(icalDate):
		t, err := time.ParseInLocation(icalDate, v, loc)
		return t, true, err
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(icalUTCTime, v)
		return t, false, err
	}

	zone := loc
	if tzid := params[string(ical.ParameterTzid)]; len(tzid) == 1 {
		if l, err := time.LoadLocation(tzid[0]); err == nil {
			zone = l
		} else {
			appLog.Debug("ics unknown TZID, using display timezone", "tzid", tzid[0])
		}
	}
	t, err := time.ParseInLocation(icalLocalTime, v, zone)
	return t, false, err
}

func isDateValue(params map[string][]string) bool {
	vs := params[string(ical.ParameterValue)]
	return len(vs) > 0 && strings.EqualFold(vs[0], "DATE")
}
