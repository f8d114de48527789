// Package agenda turns calendar source data into the per-day event lists
// and column mapping that a layout pass consumes.
package agenda

import (
	"time"

	"colcal/internal/model"
)

// GridDay returns midnight of the grid day containing t, read in t's
// location. Times before startingHour belong to the previous day's grid,
// which runs past midnight.
func GridDay(t time.Time, startingHour int) time.Time {
	if t.Hour() < startingHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Window projects occurrences onto the grid day starting at midnight of day
// in loc, covering [startingHour, endingHour) where endingHour may exceed 24.
//
// Occurrences are clamped to the window, so an event running past either
// edge is cut there; hours are counted from the day's midnight. All-day
// occurrences and anything left empty after clamping are dropped.
func Window(occs []model.Occurrence, day time.Time, loc *time.Location, startingHour, endingHour int) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	day = day.In(loc)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	from := midnight.Add(time.Duration(startingHour) * time.Hour)
	to := midnight.Add(time.Duration(endingHour) * time.Hour)

	events := make([]model.Event, 0, len(occs))
	for _, occ := range occs {
		if occ.AllDay {
			continue
		}
		start, end := occ.Start.In(loc), occ.End.In(loc)
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if !end.After(start) {
			continue
		}

		sm := minutesSince(midnight, start)
		em := minutesSince(midnight, end)
		if em <= sm {
			continue
		}
		events = append(events, model.Event{
			StartHour:    sm / 60,
			StartMinutes: sm % 60,
			EndHour:      em / 60,
			EndMinutes:   em % 60,
			Title:        occ.Summary,
			Color:        occ.Color,
			Source:       occ.SourceID,
		})
	}
	return events
}

// minutesSince counts whole wall-clock minutes from midnight to t, reading
// both in t's location so a DST shift does not move events on the grid.
func minutesSince(midnight, t time.Time) int {
	y, m, d := midnight.Date()
	ty, tm, td := t.Date()
	days := int(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Sub(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	return days*24*60 + t.Hour()*60 + t.Minute()
}
