package layout

import (
	"math"

	"colcal/internal/model"
)

// minutesPerRow is the time span of one grid row.
const minutesPerRow = 30

// overlaps reports whether b, which sorts at or after a, shares any instant
// with a. Back-to-back events (b starts exactly when a ends) do not overlap;
// events starting at the same instant always do.
func overlaps(a, b model.Event) bool {
	if a.StartInstant() == b.StartInstant() {
		return true
	}
	return b.StartInstant() < a.EndInstant()
}

// slot maps a wall-clock hour and minute to the half-hour row containing it
// and the minutes remaining inside that row.
func slot(hour, minutes, startingHour int) (row, remainder int) {
	row = (hour - startingHour) * 2
	remainder = minutes
	if remainder >= minutesPerRow {
		row++
		remainder -= minutesPerRow
	}
	return row, remainder
}

// rowOffset converts minutes inside a row to a pixel offset, discarding
// fractional pixels.
func rowOffset(remainder int, rowHeight float64) float64 {
	return math.Floor(float64(remainder) * rowHeight / minutesPerRow)
}
