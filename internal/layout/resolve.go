package layout

import "colcal/internal/model"

// Grid carries the geometry of one layout pass. It is read-only while the
// pass runs.
type Grid struct {
	// StartingHour is the hour shown in row 0.
	StartingHour int
	// RowHeight is the height of one half-hour row.
	RowHeight float64
	// ColumnWidth is the width of one column.
	ColumnWidth float64

	// RowOrigin returns the top-left corner of half-hour row i.
	RowOrigin func(row int) model.Origin
	// ColumnOrigin returns the top-left corner of column i.
	ColumnOrigin func(column int) model.Origin
}

// Resolve returns the rectangle of ev placed in lane laneIndex of a column
// split into laneCount lanes.
//
// Offsets inside a row are floored to whole pixels. The height is not
// clamped: an event ending at or before its start yields a non-positive
// height. A laneCount below one is treated as one.
func Resolve(ev model.Event, columnIndex, laneCount, laneIndex int, g Grid) model.Rect {
	if laneCount < 1 {
		laneCount = 1
	}

	startRow, startRem := slot(ev.StartHour, ev.StartMinutes, g.StartingHour)
	top := g.RowOrigin(startRow).Top + rowOffset(startRem, g.RowHeight)

	endRow, endRem := slot(ev.EndHour, ev.EndMinutes, g.StartingHour)
	bottom := g.RowOrigin(endRow).Top + rowOffset(endRem, g.RowHeight)

	width := g.ColumnWidth / float64(laneCount)
	left := g.ColumnOrigin(columnIndex).Left + width*float64(laneIndex)

	return model.Rect{
		Top:    top,
		Left:   left,
		Width:  width,
		Height: bottom - top,
	}
}
