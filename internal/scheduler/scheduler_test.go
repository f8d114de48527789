package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"colcal/internal/agenda"
	"colcal/internal/grid"
	"colcal/internal/model"
	"colcal/internal/view"
)

type fakeLoader struct {
	events []model.Event
	err    error
	days   []time.Time
}

func (f *fakeLoader) Load(_ context.Context, day time.Time) ([]model.Event, error) {
	f.days = append(f.days, day)
	return f.events, f.err
}

func newTestScheduler(t *testing.T, loader Loader) (*Scheduler, *view.View) {
	t.Helper()
	g, err := grid.New(grid.Options{StartingHour: 8, EndingHour: 2, RowHeight: 40, ColumnWidth: 100})
	if err != nil {
		t.Fatal(err)
	}
	v := view.New(g)
	s := New(v, loader, agenda.Single("Today"), Options{
		Location:    time.UTC,
		RefreshSpec: "*/15 * * * *",
		PointerSpec: "* * * * *",
	})
	return s, v
}

func TestRefresh_PrintsLoadedEvents(t *testing.T) {
	loader := &fakeLoader{events: []model.Event{{StartHour: 9, EndHour: 10, Title: "A"}}}
	s, v := newTestScheduler(t, loader)
	s.now = func() time.Time { return time.Date(2026, time.March, 16, 11, 0, 0, 0, time.UTC) }

	hooked := 0
	s.AfterRefresh(func(context.Context) error {
		hooked++
		return errors.New("capture unavailable")
	})

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	snap, ok := v.Last()
	if !ok || snap.Result.BoxCount() != 1 {
		t.Errorf("Last() = %+v, %v", snap, ok)
	}
	if hooked != 1 {
		t.Errorf("hook calls = %d, want 1", hooked)
	}
	if got := agenda.GridDay(loader.days[0], 8).Day(); got != 16 {
		t.Errorf("grid day %d, want 16", got)
	}
}

func TestRefresh_EarlyMorningBelongsToPreviousDay(t *testing.T) {
	loader := &fakeLoader{events: []model.Event{}}
	s, _ := newTestScheduler(t, loader)
	s.now = func() time.Time { return time.Date(2026, time.March, 16, 1, 30, 0, 0, time.UTC) }

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := agenda.GridDay(loader.days[0], 8).Day(); got != 15 {
		t.Errorf("grid day %d, want 15", got)
	}
}

func TestRefresh_LoadError(t *testing.T) {
	s, v := newTestScheduler(t, &fakeLoader{err: agenda.ErrAllSourcesFailed})

	if err := s.Refresh(context.Background()); !errors.Is(err, agenda.ErrAllSourcesFailed) {
		t.Errorf("Refresh() error = %v", err)
	}
	if _, ok := v.Last(); ok {
		t.Error("a failed refresh must not publish a layout")
	}
}

func TestStart_RegistersJobsAndStops(t *testing.T) {
	s, v := newTestScheduler(t, &fakeLoader{events: []model.Event{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := v.Last(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("initial refresh did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}

	if n := len(s.cron.Entries()); n != 2 {
		t.Errorf("cron entries = %d, want 2", n)
	}
}

func TestStart_BadSpec(t *testing.T) {
	s, _ := newTestScheduler(t, &fakeLoader{})
	s.pointerSpec = "whenever"

	if err := s.Start(context.Background()); err == nil {
		t.Error("Start() error = nil, want error")
	}
}
