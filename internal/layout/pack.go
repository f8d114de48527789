package layout

import (
	"cmp"
	"slices"

	"colcal/internal/model"
)

// Pack partitions the events of a single column into lanes.
//
// Events are sorted by start (hour, then minutes), keeping input order for
// equal starts. Each sweep walks the remaining events and keeps every event
// that does not overlap the last one kept; the rest are carried over to the
// next lane. Lane 0 is filled first. Every input event lands in exactly one
// lane. The input slice is not modified.
func Pack(events []model.Event) []model.Lane {
	remaining := slices.Clone(events)
	slices.SortStableFunc(remaining, compareStart)

	lanes := make([]model.Lane, 0)
	for len(remaining) > 0 {
		lane := model.Lane{remaining[0]}
		var overflow []model.Event

		for _, ev := range remaining[1:] {
			if overlaps(lane[len(lane)-1], ev) {
				overflow = append(overflow, ev)
				continue
			}
			lane = append(lane, ev)
		}

		lanes = append(lanes, lane)
		remaining = overflow
	}
	return lanes
}

func compareStart(a, b model.Event) int {
	if c := cmp.Compare(a.StartHour, b.StartHour); c != 0 {
		return c
	}
	return cmp.Compare(a.StartMinutes, b.StartMinutes)
}
