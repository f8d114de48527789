package model

import "time"

// Event is a single time-bounded entry placed on the grid.
//
// Hours use the grid's expanded range: an event that ends after midnight
// carries an EndHour above 24. Minutes are in [0,60). End must be after
// start for a meaningful layout; the layout engine does not check this.
type Event struct {
	StartHour    int    `yaml:"start_hour" json:"start_hour"`
	StartMinutes int    `yaml:"start_minutes" json:"start_minutes"`
	EndHour      int    `yaml:"end_hour" json:"end_hour"`
	EndMinutes   int    `yaml:"end_minutes" json:"end_minutes"`
	Title        string `yaml:"title" json:"title"`
	Color        string `yaml:"color,omitempty" json:"color,omitempty"`

	// Source identifies where the event came from (config column source ID).
	// Mappers may use it to classify events into columns.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// StartInstant returns the start as minutes since midnight of the grid day.
func (e Event) StartInstant() int {
	return e.StartHour*60 + e.StartMinutes
}

// EndInstant returns the end as minutes since midnight of the grid day.
func (e Event) EndInstant() int {
	return e.EndHour*60 + e.EndMinutes
}

// Column is a named vertical band of the grid and the events it holds.
type Column struct {
	Name   string
	Color  string
	Events []Event
}

// ColumnMapper classifies a flat event list into columns.
type ColumnMapper func(events []Event) []Column

// Lane is a chronologically ordered run of mutually non-overlapping events
// inside one column.
type Lane []Event

// Origin is the absolute top-left corner of a grid row or column.
type Origin struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Rect is the absolute placement of an event box.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Occurrence is an event as delivered by a calendar source, with concrete
// wall-clock times, before it is windowed onto a grid day.
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	Summary  string
	Location string
	Color    string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}
