// Package grid describes the hour-row by column geometry that events are
// laid out on: which hours are shown, how tall a half-hour row is, how wide a
// column is, and where each row and column starts.
package grid

import (
	"errors"
	"strconv"

	"colcal/internal/layout"
	"colcal/internal/model"
)

// Options configures a Grid. Zero sizes are rejected by New.
type Options struct {
	StartingHour int
	// EndingHour at or before StartingHour means the next day.
	EndingHour int

	RowHeight       float64
	ColumnWidth     float64
	HeaderHeight    float64
	TimeColumnWidth float64

	// OriginTop / OriginLeft offset the whole grid on the page.
	OriginTop  float64
	OriginLeft float64
}

// Grid is an immutable, uniformly spaced calendar grid.
type Grid struct {
	opts Options
}

// New validates opts and returns the grid.
func New(opts Options) (*Grid, error) {
	if opts.StartingHour < 0 || opts.StartingHour > 23 {
		return nil, errors.New("grid: starting hour must be within 0..23, got " + strconv.Itoa(opts.StartingHour))
	}
	if opts.EndingHour < 0 || opts.EndingHour > 48 {
		return nil, errors.New("grid: ending hour must be within 0..48, got " + strconv.Itoa(opts.EndingHour))
	}
	if opts.RowHeight <= 0 {
		return nil, errors.New("grid: row height must be positive")
	}
	if opts.ColumnWidth <= 0 {
		return nil, errors.New("grid: column width must be positive")
	}
	opts.EndingHour = NormalizeEnding(opts.StartingHour, opts.EndingHour)
	return &Grid{opts: opts}, nil
}

// StartingHour returns the hour of row 0.
func (g *Grid) StartingHour() int { return g.opts.StartingHour }

// EndingHour returns the normalized ending hour (always after StartingHour,
// above 24 for a next-day end).
func (g *Grid) EndingHour() int { return g.opts.EndingHour }

// RowCount returns the number of half-hour rows.
func (g *Grid) RowCount() int {
	return (g.opts.EndingHour - g.opts.StartingHour) * 2
}

// RowHeight returns the height of one half-hour row.
func (g *Grid) RowHeight() float64 { return g.opts.RowHeight }

// ColumnWidth returns the width of one column.
func (g *Grid) ColumnWidth() float64 { return g.opts.ColumnWidth }

// HeaderHeight returns the height of the column header row.
func (g *Grid) HeaderHeight() float64 { return g.opts.HeaderHeight }

// TimeColumnWidth returns the width of the hour label column.
func (g *Grid) TimeColumnWidth() float64 { return g.opts.TimeColumnWidth }

// RowOrigin returns the top-left corner of half-hour row i. Rows beyond the
// grid are extrapolated, so an event ending exactly at the ending hour still
// has a bottom edge.
func (g *Grid) RowOrigin(i int) model.Origin {
	return model.Origin{
		Top:  g.opts.OriginTop + g.opts.HeaderHeight + float64(i)*g.opts.RowHeight,
		Left: g.opts.OriginLeft + g.opts.TimeColumnWidth,
	}
}

// ColumnOrigin returns the top-left corner of column i's header cell.
func (g *Grid) ColumnOrigin(i int) model.Origin {
	return model.Origin{
		Top:  g.opts.OriginTop,
		Left: g.opts.OriginLeft + g.opts.TimeColumnWidth + float64(i)*g.opts.ColumnWidth,
	}
}

// Size returns the total width and height of a grid with n columns.
func (g *Grid) Size(columns int) (width, height float64) {
	width = g.opts.TimeColumnWidth + float64(columns)*g.opts.ColumnWidth
	height = g.opts.HeaderHeight + float64(g.RowCount())*g.opts.RowHeight
	return width, height
}

// Layout returns the layout geometry bound to this grid.
func (g *Grid) Layout() layout.Grid {
	return layout.Grid{
		StartingHour: g.opts.StartingHour,
		RowHeight:    g.opts.RowHeight,
		ColumnWidth:  g.opts.ColumnWidth,
		RowOrigin:    g.RowOrigin,
		ColumnOrigin: g.ColumnOrigin,
	}
}

// Labels returns one label per row. Rows on the hour read like "8am" or
// "12pm"; half-hour rows are blank. Hours past 23 belong to the next morning.
func (g *Grid) Labels() []string {
	labels := make([]string, g.RowCount())
	hour := g.opts.StartingHour
	for i := range labels {
		if i%2 != 0 {
			continue
		}
		labels[i] = HourLabel(hour)
		hour++
	}
	return labels
}

// HourLabel formats an expanded-range hour on the 12-hour clock.
func HourLabel(hour int) string {
	suffix := "pm"
	if hour < 12 || hour > 23 {
		suffix = "am"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + suffix
}
