package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colcal/internal/agenda"
	"colcal/internal/view"
)

const eventsYAML = `
- start_hour: 9
  end_hour: 10
  title: Standup
- start_hour: 9
  start_minutes: 30
  end_hour: 11
  title: Review
- start_hour: 13
  end_hour: 14
  title: Lunch
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	events := filepath.Join(dir, "events.yaml")
	if err := os.WriteFile(events, []byte(eventsYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	a := &App{configPath: filepath.Join(dir, "config.yaml"), eventsPath: events}
	if err := a.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	return a
}

func TestLayout_JSON(t *testing.T) {
	a := newTestApp(t)
	a.asJSON = true

	var buf bytes.Buffer
	if err := a.Layout(t.Context(), &buf); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	var snap view.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(snap.Result.Columns) != 1 || snap.Result.Columns[0].Name != "Today" {
		t.Fatalf("columns = %+v", snap.Result.Columns)
	}
	if got := len(snap.Result.Columns[0].Lanes); got != 2 {
		t.Errorf("lanes = %d, want 2", got)
	}
	if got := snap.Result.BoxCount(); got != 3 {
		t.Errorf("boxes = %d, want 3", got)
	}
}

func TestLayout_Terminal(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	if err := a.Layout(t.Context(), &buf); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	for _, want := range []string{"Today", "Standup", "Review", "Lunch"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"html", `data-ready="true"`},
		{"svg", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			a := newTestApp(t)
			a.format = tt.format
			a.outPath = filepath.Join(t.TempDir(), "out", "calendar."+tt.format)

			if err := a.Render(t.Context(), nil); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			data, err := os.ReadFile(a.outPath)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) || !strings.Contains(string(data), "Standup") {
				t.Errorf("output missing %q or event title", tt.want)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	a := newTestApp(t)
	a.format = "pdf"
	var buf bytes.Buffer
	if err := a.Render(t.Context(), &buf); err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Errorf("Render() error = %v, want unknown format", err)
	}
}

func TestDay(t *testing.T) {
	a := newTestApp(t)
	a.date = "2026-03-16"
	d, err := a.day()
	if err != nil {
		t.Fatalf("day() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != 3 || d.Day() != 16 {
		t.Errorf("day() = %v", d)
	}
	if g := agenda.GridDay(d, a.cfg.StartingHour.Value()); g.Day() != 16 {
		t.Errorf("grid day of %v = %v, want the 16th", d, g)
	}

	a.date = "16/03/2026"
	if _, err := a.day(); err == nil {
		t.Error("day() error = nil for a malformed date")
	}
}
