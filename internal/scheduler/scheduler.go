// Package scheduler drives the view from cron: periodic source refreshes
// and the minute-by-minute current-time marker.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "colcal/internal/log"
	"colcal/internal/model"
	"colcal/internal/view"
)

// Loader returns the events of the grid day containing at.
type Loader interface {
	Load(ctx context.Context, at time.Time) ([]model.Event, error)
}

// Scheduler owns the timers; the view and layout engine own none.
type Scheduler struct {
	cron    *cron.Cron
	view    *view.View
	loader  Loader
	mapper  model.ColumnMapper
	palette []string
	loc     *time.Location

	refreshSpec string
	pointerSpec string

	// afterRefresh runs after each successful refresh, e.g. a PNG capture.
	afterRefresh func(ctx context.Context) error

	refreshMu sync.Mutex
	now       func() time.Time
}

// Options configures a Scheduler.
type Options struct {
	Location    *time.Location
	RefreshSpec string
	PointerSpec string
	Palette     []string
}

// New builds a scheduler; nothing runs until Start.
func New(v *view.View, loader Loader, mapper model.ColumnMapper, opts Options) *Scheduler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		view:        v,
		loader:      loader,
		mapper:      mapper,
		palette:     opts.Palette,
		loc:         loc,
		refreshSpec: opts.RefreshSpec,
		pointerSpec: opts.PointerSpec,
		now:         time.Now,
	}
}

// AfterRefresh registers a hook run after every successful refresh.
func (s *Scheduler) AfterRefresh(fn func(ctx context.Context) error) {
	s.afterRefresh = fn
}

// Start performs an initial refresh, registers the cron jobs and blocks
// until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.refreshSpec, func() { _ = s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.pointerSpec, func() { s.view.Tick(s.now().In(s.loc)) }); err != nil {
		return fmt.Errorf("add pointer job: %w", err)
	}

	if err := s.Refresh(ctx); err != nil {
		appLog.Error("initial refresh failed", err)
	}

	s.cron.Start()
	appLog.Info("scheduler started", "tz", s.loc.String(), "refresh", s.refreshSpec, "pointer", s.pointerSpec)

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop halts the cron and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	appLog.Info("scheduler stopped")
}

// Refresh loads the current grid day's events and prints them. Overlapping calls are
// collapsed: a refresh requested while one is running is skipped.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.refreshMu.TryLock() {
		appLog.Debug("refresh already running, skipped")
		return nil
	}
	defer s.refreshMu.Unlock()

	events, err := s.loader.Load(ctx, s.now().In(s.loc))
	if err != nil {
		appLog.Error("refresh: load failed", err)
		return err
	}
	snap, err := s.view.Print(events, s.mapper, s.palette)
	if err != nil {
		appLog.Error("refresh: layout failed", err)
		return err
	}
	appLog.Info("refresh complete", "events", snap.Result.BoxCount(), "columns", len(snap.Result.Columns))

	if s.afterRefresh != nil {
		if err := s.afterRefresh(ctx); err != nil {
			appLog.Error("refresh: post-refresh hook failed", err)
		}
	}
	return nil
}
