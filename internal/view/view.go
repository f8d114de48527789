// Package view hosts the calendar: it remembers the last events, mapper and
// palette it was given, runs layout passes one at a time and notifies
// observers of new layouts and current-time marker moves.
package view

import (
	"slices"
	"sync"
	"time"

	"colcal/internal/grid"
	"colcal/internal/layout"
	appLog "colcal/internal/log"
	"colcal/internal/model"
)

// Snapshot is the complete output of one layout pass plus the grid facts a
// renderer needs.
type Snapshot struct {
	Result       layout.Result `json:"result"`
	Labels       []string      `json:"labels"`
	StartingHour int           `json:"starting_hour"`
	EndingHour   int           `json:"ending_hour"`
	RowCount     int           `json:"row_count"`
	RenderedAt   time.Time     `json:"rendered_at"`
}

// PointerState is the current-time marker; Visible is false outside the grid.
type PointerState struct {
	Marker  layout.Marker `json:"marker"`
	Visible bool          `json:"visible"`
	At      time.Time     `json:"at"`
}

// View is safe for concurrent use. Layout passes are serialized; pointer
// ticks never wait for a pass.
type View struct {
	grid *grid.Grid

	// passMu serializes layout passes and guards the inputs below.
	passMu  sync.Mutex
	events  []model.Event
	mapper  model.ColumnMapper
	palette []string

	stateMu  sync.RWMutex
	last     *Snapshot
	pointer  PointerState
	onLayout []func(Snapshot)
	onTick   []func(PointerState)

	now func() time.Time
}

// New returns a view over g with no data yet.
func New(g *grid.Grid) *View {
	return &View{grid: g, now: time.Now}
}

// Grid returns the view's grid.
func (v *View) Grid() *grid.Grid { return v.grid }

// OnLayout registers fn to be called after every successful layout pass.
func (v *View) OnLayout(fn func(Snapshot)) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	v.onLayout = append(v.onLayout, fn)
}

// OnPointer registers fn to be called after every pointer tick.
func (v *View) OnPointer(fn func(PointerState)) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	v.onTick = append(v.onTick, fn)
}

// Print lays out events. Any nil argument falls back to the value from the
// previous call; with no previous value, events and mapper are required
// (layout.ErrNoEvents / layout.ErrNoMapper) and palette falls back to
// layout.DefaultPalette.
func (v *View) Print(events []model.Event, mapper model.ColumnMapper, palette []string) (Snapshot, error) {
	v.passMu.Lock()
	defer v.passMu.Unlock()

	if events == nil {
		events = v.events
	}
	if mapper == nil {
		mapper = v.mapper
	}
	if palette == nil {
		palette = v.palette
	}
	if palette == nil {
		palette = layout.DefaultPalette
	}

	res, err := layout.Run(events, mapper, v.grid.Layout(), palette)
	if err != nil {
		return Snapshot{}, err
	}

	v.events = slices.Clone(events)
	v.mapper = mapper
	v.palette = palette

	snap := Snapshot{
		Result:       res,
		Labels:       v.grid.Labels(),
		StartingHour: v.grid.StartingHour(),
		EndingHour:   v.grid.EndingHour(),
		RowCount:     v.grid.RowCount(),
		RenderedAt:   v.now(),
	}

	v.stateMu.Lock()
	v.last = &snap
	observers := slices.Clone(v.onLayout)
	v.stateMu.Unlock()

	appLog.Debug("layout pass", "columns", len(res.Columns), "events", res.BoxCount())
	for _, fn := range observers {
		fn(snap)
	}

	// A fresh grid moves the marker too.
	v.Tick(v.now())
	return snap, nil
}

// Refresh reruns the last layout, e.g. after the viewport changed.
func (v *View) Refresh() (Snapshot, error) {
	return v.Print(nil, nil, nil)
}

// Tick recomputes the current-time marker for now.
func (v *View) Tick(now time.Time) PointerState {
	m, ok := layout.Pointer(now, v.grid.Layout(), v.grid.RowCount())
	st := PointerState{Marker: m, Visible: ok, At: now}

	v.stateMu.Lock()
	v.pointer = st
	observers := slices.Clone(v.onTick)
	v.stateMu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
	return st
}

// Last returns the most recent snapshot, if any.
func (v *View) Last() (Snapshot, bool) {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	if v.last == nil {
		return Snapshot{}, false
	}
	return *v.last, true
}

// Pointer returns the most recent marker state.
func (v *View) Pointer() PointerState {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.pointer
}
