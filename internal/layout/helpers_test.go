package layout

import "colcal/internal/model"

func ev(title string, sh, sm, eh, em int) model.Event {
	return model.Event{
		StartHour:    sh,
		StartMinutes: sm,
		EndHour:      eh,
		EndMinutes:   em,
		Title:        title,
	}
}

// testGrid is a uniform grid: rows 40px tall starting at y=100, columns
// 120px wide starting at x=50.
func testGrid(startingHour int) Grid {
	return Grid{
		StartingHour: startingHour,
		RowHeight:    40,
		ColumnWidth:  120,
		RowOrigin: func(row int) model.Origin {
			return model.Origin{Top: 100 + float64(row)*40, Left: 50}
		},
		ColumnOrigin: func(column int) model.Origin {
			return model.Origin{Top: 0, Left: 50 + float64(column)*120}
		},
	}
}

func laneTitles(lanes []model.Lane) [][]string {
	out := make([][]string, 0, len(lanes))
	for _, lane := range lanes {
		titles := make([]string, 0, len(lane))
		for _, e := range lane {
			titles = append(titles, e.Title)
		}
		out = append(out, titles)
	}
	return out
}
