package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"colcal/internal/agenda"
	"colcal/internal/capture"
	"colcal/internal/config"
	"colcal/internal/grid"
	appLog "colcal/internal/log"
	"colcal/internal/model"
	"colcal/internal/render"
	"colcal/internal/scheduler"
	"colcal/internal/view"
	"colcal/internal/web"
)

const cacheDir = "./cache/ics"

// App holds the flag values and the loaded configuration shared by all
// commands.
type App struct {
	configPath string
	logLevel   string
	listen     string
	eventsPath string
	date       string
	asJSON     bool
	format     string
	outPath    string
	url        string

	cfg *config.Config
}

// LoadConfig reads the config file and applies the global flags.
func (a *App) LoadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	a.cfg = cfg
	return nil
}

func (a *App) newView() (*view.View, error) {
	opts, err := a.cfg.GridOptions()
	if err != nil {
		return nil, err
	}
	g, err := grid.New(opts)
	if err != nil {
		return nil, err
	}
	return view.New(g), nil
}

// mapper places events by source when columns are configured, otherwise
// everything lands in a single column.
func (a *App) mapper() model.ColumnMapper {
	if len(a.cfg.Columns) == 0 {
		return agenda.Single("Today")
	}
	return agenda.BySource(a.cfg.Columns)
}

// Serve runs the scheduler and the web server until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	if a.listen != "" {
		a.cfg.Listen = a.listen
	}
	appLog.Info("effective config",
		"listen", a.cfg.Listen,
		"timezone", a.cfg.Timezone,
		"starting_hour", a.cfg.StartingHour.Value(),
		"ending_hour", a.cfg.EndingHour.Value(),
		"columns", len(a.cfg.Columns),
		"refresh", a.cfg.RefreshCron,
		"capture", a.cfg.Capture.Enabled,
	)

	v, err := a.newView()
	if err != nil {
		return err
	}
	sched := scheduler.New(v, agenda.NewLoader(a.cfg, cacheDir), a.mapper(), scheduler.Options{
		Location:    a.cfg.Location(),
		RefreshSpec: a.cfg.RefreshCron,
		PointerSpec: a.cfg.PointerCron,
		Palette:     a.cfg.Palette,
	})
	if a.cfg.Capture.Enabled {
		sched.AfterRefresh(func(ctx context.Context) error {
			return a.capturePNG(ctx, v.Grid(), a.localURL(), a.cfg.Capture.Output)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := web.NewServer(a.cfg, v, sched.Refresh)
	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(ctx)
		if err != nil {
			// A server that cannot listen takes the scheduler down with it.
			cancel()
		}
		errCh <- err
	}()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	appLog.Info("colcal exiting")
	return nil
}

// Layout prints one day to w, as JSON or as terminal columns.
func (a *App) Layout(ctx context.Context, w io.Writer) error {
	v, snap, err := a.printOnce(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return render.Terminal(w, snap, v.Pointer())
}

// Render writes one day as HTML or SVG to the --out file or w.
func (a *App) Render(ctx context.Context, w io.Writer) error {
	v, snap, err := a.printOnce(ctx)
	if err != nil {
		return err
	}

	if a.outPath != "" && a.outPath != "-" {
		if err := os.MkdirAll(filepath.Dir(a.outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(a.outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch a.format {
	case "html":
		return render.HTML(w, v.Grid(), snap, v.Pointer())
	case "svg":
		return render.SVG(w, v.Grid(), snap, v.Pointer())
	default:
		return fmt.Errorf("unknown format %q (want html or svg)", a.format)
	}
}

// Capture screenshots a running server's calendar page.
func (a *App) Capture(ctx context.Context) error {
	v, err := a.newView()
	if err != nil {
		return err
	}
	url := a.url
	if url == "" {
		url = a.localURL()
	}
	out := a.outPath
	if out == "" {
		out = a.cfg.Capture.Output
	}
	if err := a.capturePNG(ctx, v.Grid(), url, out); err != nil {
		return err
	}
	appLog.Info("capture written", "url", url, "out", out)
	return nil
}

// printOnce builds a view and runs a single layout pass over either the
// --events file or the configured sources for --date.
func (a *App) printOnce(ctx context.Context) (*view.View, view.Snapshot, error) {
	v, err := a.newView()
	if err != nil {
		return nil, view.Snapshot{}, err
	}

	var events []model.Event
	if a.eventsPath != "" {
		events, err = agenda.LoadEventsFile(a.eventsPath)
	} else {
		var day time.Time
		day, err = a.day()
		if err != nil {
			return nil, view.Snapshot{}, err
		}
		events, err = agenda.NewLoader(a.cfg, cacheDir).Load(ctx, day)
	}
	if err != nil {
		return nil, view.Snapshot{}, err
	}

	snap, err := v.Print(events, a.mapper(), a.cfg.Palette)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	return v, snap, nil
}

// day returns an instant inside the grid day to load. Without --date that
// is now, which before the starting hour still falls in yesterday's grid.
// A --date is pinned to its starting hour so it names its own grid day.
func (a *App) day() (time.Time, error) {
	loc := a.cfg.Location()
	if a.date == "" {
		return time.Now().In(loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", a.date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", a.date, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), a.cfg.StartingHour.Value(), 0, 0, 0, loc), nil
}

func (a *App) localURL() string {
	return "http://" + a.cfg.Listen + "/calendar"
}

func (a *App) capturePNG(ctx context.Context, g *grid.Grid, url, out string) error {
	width, height := g.Size(max(len(a.cfg.Columns), 1))
	opts := capture.Options{
		URL:        url,
		OutputPath: out,
		Width:      a.cfg.Capture.Width,
		Height:     a.cfg.Capture.Height,
		FitWidth:   int(width),
		FitHeight:  int(height),
	}
	if ba := a.cfg.BasicAuth; ba != nil && ba.Username != "" && ba.Password != "" {
		token := base64.StdEncoding.EncodeToString([]byte(ba.Username + ":" + ba.Password))
		opts.Headers = map[string]string{"Authorization": "Basic " + token}
	}
	return capture.CalendarPNG(ctx, opts)
}
