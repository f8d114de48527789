package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"colcal/internal/model"
	"colcal/internal/view"
)

const termLaneWidth = 24

var (
	termHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	termLane   = lipgloss.NewStyle().Width(termLaneWidth).PaddingRight(1)
	termMuted  = lipgloss.NewStyle().Faint(true)
)

// Terminal writes one block per column with its lanes side by side, each
// lane listing its events in start order.
func Terminal(w io.Writer, snap view.Snapshot, pointer view.PointerState) error {
	var blocks []string

	for _, col := range snap.Result.Columns {
		header := termHeader.
			Background(lipgloss.Color(hexColor(col.Color))).
			Foreground(lipgloss.Color(textColor(col.Color))).
			Render(col.Name)

		if len(col.Lanes) == 0 {
			blocks = append(blocks, header+"\n"+termMuted.Render("  no events"))
			continue
		}

		lanes := make([]string, 0, len(col.Lanes))
		for li, lane := range col.Lanes {
			lines := []string{termMuted.Render(fmt.Sprintf("lane %d", li))}
			for _, ev := range lane {
				color := ev.Color
				if color == "" {
					color = col.Color
				}
				chip := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(color))).Render("■")
				lines = append(lines, chip+" "+timeRange(ev)+" "+ev.Title)
			}
			lanes = append(lanes, termLane.Render(strings.Join(lines, "\n")))
		}
		blocks = append(blocks, header+"\n"+lipgloss.JoinHorizontal(lipgloss.Top, lanes...))
	}

	out := strings.Join(blocks, "\n\n")
	if pointer.Visible {
		out += "\n\n" + termMuted.Render("now: "+pointer.At.Format("15:04"))
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// timeRange formats an event's span on the expanded-hour clock, so a
// past-midnight end reads as e.g. "25:30".
func timeRange(ev model.Event) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", ev.StartHour, ev.StartMinutes, ev.EndHour, ev.EndMinutes)
}
