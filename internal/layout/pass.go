package layout

import (
	"errors"

	"colcal/internal/model"
)

var (
	// ErrNoEvents is returned when a layout pass is started without an event list.
	ErrNoEvents = errors.New("layout: events undefined")
	// ErrNoMapper is returned when a layout pass is started without a column mapper.
	ErrNoMapper = errors.New("layout: column mapper undefined")
)

// Box is one event placed on the grid.
type Box struct {
	Event model.Event `json:"event"`
	Lane  int         `json:"lane"`
	Rect  model.Rect  `json:"rect"`
	Color string      `json:"color"`
}

// ColumnLayout is the packed and resolved content of one column.
type ColumnLayout struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	Color string       `json:"color"`
	Lanes []model.Lane `json:"lanes"`
	Boxes []Box        `json:"boxes"`
}

// Result is the output of one layout pass, in column order.
type Result struct {
	Columns []ColumnLayout `json:"columns"`
}

// BoxCount returns the number of placed events across all columns.
func (r Result) BoxCount() int {
	n := 0
	for _, c := range r.Columns {
		n += len(c.Boxes)
	}
	return n
}

// Run performs a full layout pass: classify events into columns, pack each
// column into lanes and resolve a rectangle for every event.
//
// A nil events slice or mapper is a caller error. An empty, non-nil events
// slice is a valid empty day.
func Run(events []model.Event, mapper model.ColumnMapper, g Grid, palette []string) (Result, error) {
	if events == nil {
		return Result{}, ErrNoEvents
	}
	if mapper == nil {
		return Result{}, ErrNoMapper
	}

	columns := mapper(events)
	res := Result{Columns: make([]ColumnLayout, 0, len(columns))}

	for i, col := range columns {
		color := ColumnColor(col, i, palette)
		lanes := Pack(col.Events)

		cl := ColumnLayout{
			Index: i,
			Name:  col.Name,
			Color: color,
			Lanes: lanes,
			Boxes: make([]Box, 0, len(col.Events)),
		}
		for li, lane := range lanes {
			for _, ev := range lane {
				cl.Boxes = append(cl.Boxes, Box{
					Event: ev,
					Lane:  li,
					Rect:  Resolve(ev, i, len(lanes), li, g),
					Color: EventColor(ev, color),
				})
			}
		}
		res.Columns = append(res.Columns, cl)
	}

	return res, nil
}
