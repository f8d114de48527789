package agenda

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"colcal/internal/caldav"
	"colcal/internal/config"
	"colcal/internal/ics"
	appLog "colcal/internal/log"
	"colcal/internal/model"
)

// ErrAllSourcesFailed is returned when sources are configured but none of
// them could be read.
var ErrAllSourcesFailed = errors.New("agenda: all event sources failed")

// Loader gathers one grid day of events from every configured source.
type Loader struct {
	cfg     *config.Config
	fetcher *ics.Fetcher
}

// NewLoader creates a Loader caching ICS feeds under cacheDir.
func NewLoader(cfg *config.Config, cacheDir string) *Loader {
	return &Loader{cfg: cfg, fetcher: ics.NewFetcher(cacheDir)}
}

// Load returns the events of the grid day containing at, so that at 01:00
// the grid that started the previous morning is still loaded. A source
// that fails is logged and skipped.
func (l *Loader) Load(ctx context.Context, at time.Time) ([]model.Event, error) {
	loc := l.cfg.Location()
	opts, err := l.cfg.GridOptions()
	if err != nil {
		return nil, err
	}
	start := opts.StartingHour
	end := opts.EndingHour
	if end <= start {
		end += 24
	}

	midnight := GridDay(at.In(loc), start)
	from := midnight.Add(time.Duration(start) * time.Hour)
	to := midnight.Add(time.Duration(end) * time.Hour)

	var (
		occs      []model.Occurrence
		attempted int
		failed    int
	)

	var feeds []ics.Source
	for _, col := range l.cfg.Columns {
		if col.ICS != "" {
			feeds = append(feeds, ics.Source{ID: col.ID, URL: col.ICS})
		}
	}
	if len(feeds) > 0 {
		results, errs := l.fetcher.FetchAll(ctx, feeds)
		attempted += len(feeds)
		failed += len(errs)
		for _, res := range results {
			parsed, err := ics.Parse(res.Source, res.Body, from, to, loc)
			if err != nil {
				appLog.Error("ics parse failed", err, "id", res.Source.ID)
				failed++
				continue
			}
			occs = append(occs, parsed...)
		}
	}

	for _, col := range l.cfg.Columns {
		if col.CalDAV == nil {
			continue
		}
		attempted++
		found, err := l.loadCalDAV(ctx, col, from, to, loc)
		if err != nil {
			appLog.Error("caldav load failed", err, "id", col.ID)
			failed++
			continue
		}
		occs = append(occs, found...)
	}

	events := Window(occs, midnight, loc, start, end)

	if l.cfg.EventsFile != "" {
		attempted++
		static, err := LoadEventsFile(l.cfg.EventsFile)
		if err != nil {
			appLog.Error("events file load failed", err, "path", l.cfg.EventsFile)
			failed++
		} else {
			events = append(events, static...)
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, ErrAllSourcesFailed
	}

	appLog.Info("agenda loaded", "day", midnight.Format("2006-01-02"), "events", len(events), "sources", attempted, "failed", failed)
	return events, nil
}

func (l *Loader) loadCalDAV(ctx context.Context, col config.ColumnConfig, from, to time.Time, loc *time.Location) ([]model.Occurrence, error) {
	client, err := caldav.NewClient(caldav.Source{
		ID:       col.ID,
		URL:      col.CalDAV.URL,
		Username: col.CalDAV.Username,
		Password: col.CalDAV.Password,
		Path:     col.CalDAV.Path,
	})
	if err != nil {
		return nil, err
	}
	return client.Events(ctx, from, to, loc)
}

// LoadEventsFile reads a YAML list of events already expressed in grid
// hours. Each entry's source picks its column.
func LoadEventsFile(path string) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	events := []model.Event{}
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("agenda: parse %s: %w", path, err)
	}
	return events, nil
}
