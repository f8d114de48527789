package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"colcal/internal/grid"
	"colcal/internal/view"
)

// SVG writes the snapshot as a standalone SVG document using the same
// geometry as the HTML page.
func SVG(w io.Writer, g *grid.Grid, snap view.Snapshot, pointer view.PointerState) error {
	cols := len(snap.Result.Columns)
	width, height := g.Size(cols)
	gridWidth := g.ColumnWidth() * float64(cols)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="sans-serif" font-size="12">`+"\n",
		px(width), px(height), px(width), px(height))
	fmt.Fprintf(&b, `  <rect width="%s" height="%s" fill="#ffffff"/>`+"\n", px(width), px(height))

	for _, col := range snap.Result.Columns {
		o := g.ColumnOrigin(col.Index)
		fmt.Fprintf(&b, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#cccccc"/>`+"\n",
			px(o.Left), px(o.Top), px(g.ColumnWidth()), px(g.HeaderHeight()), hexColor(col.Color))
		fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-weight="bold" fill="%s">%s</text>`+"\n",
			px(o.Left+g.ColumnWidth()/2), px(o.Top+g.HeaderHeight()/2), textColor(col.Color), html.EscapeString(col.Name))
	}

	for i, label := range snap.Labels {
		o := g.RowOrigin(i)
		stroke, dash := "#bbbbbb", ""
		if i%2 != 0 {
			stroke, dash = "#dddddd", ` stroke-dasharray="2,2"`
		}
		fmt.Fprintf(&b, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"%s/>`+"\n",
			px(o.Left), px(o.Top), px(o.Left+gridWidth), px(o.Top), stroke, dash)
		if label != "" {
			fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="end" dominant-baseline="hanging">%s</text>`+"\n",
				px(o.Left-4), px(o.Top+2), label)
		}
	}

	for _, col := range snap.Result.Columns {
		for _, box := range col.Boxes {
			r := box.Rect
			fmt.Fprintf(&b, `  <rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s" stroke="#00000055"/>`+"\n",
				px(r.Left), px(r.Top), px(r.Width), px(r.Height), hexColor(box.Color))
			fmt.Fprintf(&b, `  <text x="%s" y="%s" dominant-baseline="hanging" fill="%s">%s</text>`+"\n",
				px(r.Left+3), px(r.Top+3), textColor(box.Color), html.EscapeString(box.Event.Title))
		}
	}

	if pointer.Visible {
		m := pointer.Marker
		fmt.Fprintf(&b, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#dd0000" stroke-width="2"/>`+"\n",
			px(m.Left), px(m.Top), px(m.Left+gridWidth), px(m.Top))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
