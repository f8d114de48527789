package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"colcal/internal/grid"
	"colcal/internal/view"
)

//go:embed templates/calendar.html.tmpl
var templateFS embed.FS

var calendarTmpl = template.Must(template.ParseFS(templateFS, "templates/calendar.html.tmpl"))

type htmlCell struct {
	Style template.CSS
	Text  string
	Class string
}

type htmlPage struct {
	Title   string
	Style   template.CSS
	Headers []htmlCell
	Rows    []htmlCell
	Labels  []htmlCell
	Boxes   []htmlCell
	Pointer *htmlCell
}

// HTML writes a self-contained page: column headers, hour rows and
// absolutely positioned event boxes at their resolved rectangles. The root
// element carries data-ready="true" for headless capture.
func HTML(w io.Writer, g *grid.Grid, snap view.Snapshot, pointer view.PointerState) error {
	width, height := g.Size(len(snap.Result.Columns))
	page := htmlPage{
		Title: "Calendar",
		Style: template.CSS(fmt.Sprintf("width:%spx;height:%spx", px(width), px(height))),
	}

	for _, col := range snap.Result.Columns {
		o := g.ColumnOrigin(col.Index)
		page.Headers = append(page.Headers, htmlCell{
			Style: boxStyle(o.Top, o.Left, g.ColumnWidth(), g.HeaderHeight(), col.Color),
			Text:  col.Name,
		})
	}

	for i, label := range snap.Labels {
		o := g.RowOrigin(i)
		class := "row"
		if i%2 == 0 {
			class = "row hour"
		}
		page.Rows = append(page.Rows, htmlCell{
			Style: template.CSS(fmt.Sprintf("top:%spx;left:%spx;width:%spx;height:%spx",
				px(o.Top), px(o.Left), px(g.ColumnWidth()*float64(len(snap.Result.Columns))), px(g.RowHeight()))),
			Class: class,
		})
		if label != "" {
			page.Labels = append(page.Labels, htmlCell{
				Style: template.CSS(fmt.Sprintf("top:%spx;left:%spx;width:%spx",
					px(o.Top), px(o.Left-g.TimeColumnWidth()), px(g.TimeColumnWidth()))),
				Text: label,
			})
		}
	}

	for _, col := range snap.Result.Columns {
		for _, b := range col.Boxes {
			page.Boxes = append(page.Boxes, htmlCell{
				Style: boxStyle(b.Rect.Top, b.Rect.Left, b.Rect.Width, b.Rect.Height, b.Color),
				Text:  b.Event.Title,
			})
		}
	}

	if pointer.Visible {
		page.Pointer = &htmlCell{
			Style: template.CSS(fmt.Sprintf("top:%spx;left:%spx;width:%spx",
				px(pointer.Marker.Top), px(pointer.Marker.Left), px(g.ColumnWidth()*float64(len(snap.Result.Columns))))),
		}
	}

	return calendarTmpl.Execute(w, page)
}

func boxStyle(top, left, width, height float64, color string) template.CSS {
	return template.CSS(fmt.Sprintf("top:%spx;left:%spx;width:%spx;height:%spx;background-color:%s;color:%s",
		px(top), px(left), px(width), px(height), cssColor(color), textColor(color)))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
