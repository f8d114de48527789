package view

import (
	"errors"
	"sync"
	"testing"
	"time"

	"colcal/internal/agenda"
	"colcal/internal/grid"
	"colcal/internal/layout"
	"colcal/internal/model"
)

func newTestView(t *testing.T) *View {
	t.Helper()
	g, err := grid.New(grid.Options{StartingHour: 8, EndingHour: 2, RowHeight: 40, ColumnWidth: 100})
	if err != nil {
		t.Fatal(err)
	}
	v := New(g)
	v.now = func() time.Time { return time.Date(2026, time.March, 16, 9, 15, 0, 0, time.UTC) }
	return v
}

func TestPrint_RequiresInitialInputs(t *testing.T) {
	v := newTestView(t)

	if _, err := v.Print(nil, agenda.Single("x"), nil); !errors.Is(err, layout.ErrNoEvents) {
		t.Errorf("Print(nil events) error = %v, want ErrNoEvents", err)
	}
	if _, err := v.Print([]model.Event{}, nil, nil); !errors.Is(err, layout.ErrNoMapper) {
		t.Errorf("Print(nil mapper) error = %v, want ErrNoMapper", err)
	}
	if _, ok := v.Last(); ok {
		t.Error("failed passes must not publish a snapshot")
	}
}

func TestPrint_ReusesPreviousInputs(t *testing.T) {
	v := newTestView(t)
	events := []model.Event{{StartHour: 9, EndHour: 10, Title: "A"}}

	first, err := v.Print(events, agenda.Single("Today"), nil)
	if err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if first.Result.Columns[0].Color != "red" {
		t.Errorf("color = %q, want default palette red", first.Result.Columns[0].Color)
	}
	if first.RowCount != 36 || len(first.Labels) != 36 {
		t.Errorf("rows = %d labels = %d, want 36", first.RowCount, len(first.Labels))
	}

	second, err := v.Print(nil, nil, []string{"black"})
	if err != nil {
		t.Fatalf("Print(nil, nil, palette) error = %v", err)
	}
	if second.Result.BoxCount() != 1 || second.Result.Columns[0].Color != "black" {
		t.Errorf("second pass = %+v", second.Result)
	}

	third, err := v.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if third.Result.Columns[0].Color != "black" {
		t.Errorf("Refresh() lost palette: %q", third.Result.Columns[0].Color)
	}
}

func TestPrint_SnapshotIsIsolatedFromCaller(t *testing.T) {
	v := newTestView(t)
	events := []model.Event{{StartHour: 9, EndHour: 10, Title: "A"}}
	if _, err := v.Print(events, agenda.Single("Today"), nil); err != nil {
		t.Fatal(err)
	}

	events[0].Title = "mutated"
	snap, err := v.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Result.Columns[0].Boxes[0].Event.Title; got != "A" {
		t.Errorf("title = %q, want A", got)
	}
}

func TestObservers(t *testing.T) {
	v := newTestView(t)

	var (
		mu      sync.Mutex
		layouts int
		ticks   []PointerState
	)
	v.OnLayout(func(Snapshot) {
		mu.Lock()
		layouts++
		mu.Unlock()
	})
	v.OnPointer(func(p PointerState) {
		mu.Lock()
		ticks = append(ticks, p)
		mu.Unlock()
	})

	if _, err := v.Print([]model.Event{}, agenda.Single("Today"), nil); err != nil {
		t.Fatal(err)
	}
	v.Tick(time.Date(2026, time.March, 16, 3, 0, 0, 0, time.UTC))

	mu.Lock()
	defer mu.Unlock()
	if layouts != 1 {
		t.Errorf("layout notifications = %d, want 1", layouts)
	}
	if len(ticks) != 2 {
		t.Fatalf("pointer notifications = %d, want 2", len(ticks))
	}
	if !ticks[0].Visible || ticks[0].Marker.Row != 2 {
		t.Errorf("first tick = %+v, want row 2 visible", ticks[0])
	}
	if ticks[1].Visible {
		t.Errorf("03:00 is past a 2am end and should be hidden")
	}
	if v.Pointer() != ticks[1] {
		t.Errorf("Pointer() = %+v, want last tick", v.Pointer())
	}
}

func TestPrint_ConcurrentPassesAreSerialized(t *testing.T) {
	v := newTestView(t)
	if _, err := v.Print([]model.Event{{StartHour: 9, EndHour: 10}}, agenda.Single("Today"), nil); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := v.Refresh(); err != nil {
				t.Errorf("Refresh() error = %v", err)
			}
			v.Tick(time.Now())
		}()
	}
	wg.Wait()

	snap, ok := v.Last()
	if !ok || snap.Result.BoxCount() != 1 {
		t.Errorf("Last() = %+v, %v", snap, ok)
	}
}
