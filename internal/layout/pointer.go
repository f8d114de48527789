package layout

import "time"

// Marker is the position of the current-time indicator.
type Marker struct {
	Row  int     `json:"row"`
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Pointer locates now on a grid of rowCount half-hour rows. Hours earlier
// than the grid's starting hour are read as the early hours of the next
// day. The second result is false when now falls outside the grid.
func Pointer(now time.Time, g Grid, rowCount int) (Marker, bool) {
	hour := now.Hour()
	if hour < g.StartingHour {
		hour += 24
	}

	row, rem := slot(hour, now.Minute(), g.StartingHour)
	if row < 0 || row >= rowCount {
		return Marker{}, false
	}

	origin := g.RowOrigin(row)
	return Marker{
		Row:  row,
		Top:  origin.Top + rowOffset(rem, g.RowHeight),
		Left: origin.Left,
	}, true
}
