package agenda

import (
	"colcal/internal/config"
	"colcal/internal/model"
)

// BySource returns a mapper placing each event in the configured column
// whose ID equals the event's Source. Columns keep configuration order and
// are emitted even when empty; events with an unknown source are dropped.
func BySource(columns []config.ColumnConfig) model.ColumnMapper {
	return func(events []model.Event) []model.Column {
		out := make([]model.Column, len(columns))
		index := make(map[string]int, len(columns))
		for i, c := range columns {
			out[i] = model.Column{Name: c.Name, Color: c.Color, Events: []model.Event{}}
			index[c.ID] = i
		}
		for _, ev := range events {
			i, ok := index[ev.Source]
			if !ok {
				continue
			}
			out[i].Events = append(out[i].Events, ev)
		}
		return out
	}
}

// Single returns a mapper that puts every event into one column.
func Single(name string) model.ColumnMapper {
	return func(events []model.Event) []model.Column {
		return []model.Column{{Name: name, Events: events}}
	}
}
