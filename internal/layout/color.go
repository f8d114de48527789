package layout

import "colcal/internal/model"

// DefaultPalette is used for columns without their own color when the caller
// supplies no palette.
var DefaultPalette = []string{"red", "orange", "yellow", "green", "blue", "indigo", "violet"}

// ColumnColor picks the display color of the column at index: its own color
// if set, otherwise the palette entry at index modulo the palette length.
func ColumnColor(col model.Column, index int, palette []string) string {
	if col.Color != "" {
		return col.Color
	}
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[index%len(palette)]
}

// EventColor returns the event's own color or, failing that, its column's.
func EventColor(ev model.Event, columnColor string) string {
	if ev.Color != "" {
		return ev.Color
	}
	return columnColor
}
