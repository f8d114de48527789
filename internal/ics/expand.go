package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "colcal/internal/log"
	"colcal/internal/model"
)

const maxOccurrencesPerEvent = 5000

// Expand turns parsed events into the concrete occurrences overlapping
// [from, to), converted to loc. It handles:
//
//   - single events
//   - RRULE recurrences, minus EXDATEs
//   - RECURRENCE-ID overrides, which replace the instance they name
//
// Occurrences keep their own timezone during expansion so that a weekly
// 09:00 meeting stays at 09:00 across DST changes.
func Expand(events []ParsedEvent, from, to time.Time, loc *time.Location) []model.Occurrence {
	if loc == nil {
		loc = time.Local
	}

	// Overridden instances, by UID, keyed on their original start.
	replaced := make(map[string][]time.Time)
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			replaced[ev.Base.UID] = append(replaced[ev.Base.UID], *ev.RecurrenceID)
		}
	}

	out := make([]model.Occurrence, 0)
	for _, ev := range events {
		switch {
		case ev.RecurrenceID != nil, ev.RawRRule == "":
			if overlaps(ev.Base.Start, ev.Base.End, from, to) {
				out = append(out, inLocation(ev.Base, ev.Base.Start, ev.Base.End, loc))
			}
		default:
			out = append(out, expandRecurring(ev, replaced[ev.Base.UID], from, to, loc)...)
		}
	}
	return out
}

func expandRecurring(ev ParsedEvent, replaced []time.Time, from, to time.Time, loc *time.Location) []model.Occurrence {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics: failed to parse RRULE", err, "uid", ev.Base.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Base.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Base.Start.Location()))
	}
	for _, rid := range replaced {
		set.ExDate(rid.In(ev.Base.Start.Location()))
	}

	dur := ev.Base.End.Sub(ev.Base.Start)
	// Instances starting before from can still reach into the window.
	zone := ev.Base.Start.Location()
	starts := set.Between(from.Add(-dur).In(zone), to.In(zone), true)
	if len(starts) > maxOccurrencesPerEvent {
		appLog.Error("ics: truncated occurrences for UID due to cap",
			errors.New("max occurrences reached"),
			"uid", ev.Base.UID,
			"cap", maxOccurrencesPerEvent,
		)
		starts = starts[:maxOccurrencesPerEvent]
	}

	out := make([]model.Occurrence, 0, len(starts))
	for _, start := range starts {
		end := start.Add(dur)
		if ev.Base.AllDay {
			end = start.AddDate(0, 0, 1)
		}
		if !overlaps(start, end, from, to) {
			continue
		}
		out = append(out, inLocation(ev.Base, start, end, loc))
	}
	return out
}

func inLocation(base model.Occurrence, start, end time.Time, loc *time.Location) model.Occurrence {
	occ := base
	occ.Start = start.In(loc)
	occ.End = end.In(loc)
	return occ
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
