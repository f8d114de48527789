package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"colcal/internal/grid"
)

// CalDAVConfig points a column at a CalDAV calendar collection.
type CalDAVConfig struct {
	URL      string `yaml:"url" json:"url"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
	// Path is the calendar collection path, e.g. "/calendars/me/family/".
	Path string `yaml:"path" json:"path"`
}

// ColumnConfig describes one grid column and where its events come from.
// A column may have an ICS feed, a CalDAV calendar, both, or neither (in
// which case only events_file entries tagged with its ID land in it).
type ColumnConfig struct {
	// ID is the source identifier events are tagged with. Defaults to Name.
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`

	ICS    string        `yaml:"ics,omitempty" json:"ics,omitempty"`
	CalDAV *CalDAVConfig `yaml:"caldav,omitempty" json:"caldav,omitempty"`
}

// CaptureConfig controls the headless browser PNG preview.
type CaptureConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Output  string `yaml:"output" json:"output"`
	Width   int    `yaml:"width" json:"width"`
	Height  int    `yaml:"height" json:"height"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone in which event times and "now" are read.
	Timezone string `yaml:"timezone" json:"timezone"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// StartingHour / EndingHour bound the visible rows. Either accepts a
	// 24-hour integer or an am/pm string; an ending hour at or before the
	// starting hour means the next morning.
	StartingHour grid.HourSpec `yaml:"starting_hour" json:"-"`
	EndingHour   grid.HourSpec `yaml:"ending_hour" json:"-"`

	RowHeight       float64 `yaml:"row_height" json:"row_height"`
	ColumnWidth     float64 `yaml:"column_width" json:"column_width"`
	HeaderHeight    float64 `yaml:"header_height" json:"header_height"`
	TimeColumnWidth float64 `yaml:"time_column_width" json:"time_column_width"`

	// Palette colors columns that have no color of their own, by position.
	Palette []string `yaml:"palette" json:"palette"`

	// RefreshCron reloads event sources; PointerCron moves the
	// current-time marker.
	RefreshCron string `yaml:"refresh" json:"refresh"`
	PointerCron string `yaml:"pointer" json:"pointer"`

	Columns []ColumnConfig `yaml:"columns" json:"columns"`

	// EventsFile is an optional YAML list of static events.
	EventsFile string `yaml:"events_file,omitempty" json:"events_file,omitempty"`

	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen       = "127.0.0.1:8080"
	defaultTimezone     = "UTC"
	defaultStartingHour = 8
	defaultEndingHour   = 26
	defaultRefreshCron  = "*/15 * * * *"
	defaultPointerCron  = "* * * * *"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !c.StartingHour.IsSet() {
		c.StartingHour = grid.Hour(defaultStartingHour)
	}
	if !c.EndingHour.IsSet() {
		c.EndingHour = grid.Hour(defaultEndingHour)
	}
	if c.RowHeight == 0 {
		c.RowHeight = 40
	}
	if c.ColumnWidth == 0 {
		c.ColumnWidth = 160
	}
	if c.HeaderHeight == 0 {
		c.HeaderHeight = 32
	}
	if c.TimeColumnWidth == 0 {
		c.TimeColumnWidth = 56
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.PointerCron == "" {
		c.PointerCron = defaultPointerCron
	}
	if c.Columns == nil {
		c.Columns = []ColumnConfig{}
	}
	for i := range c.Columns {
		if c.Columns[i].ID == "" {
			c.Columns[i].ID = c.Columns[i].Name
		}
	}
	if c.Capture.Output == "" {
		c.Capture.Output = "./cache/preview.png"
	}
}

// Validate rejects configurations that cannot produce a grid.
func (c *Config) Validate() error {
	if c.RowHeight <= 0 {
		return fmt.Errorf("config: row_height must be positive, got %v", c.RowHeight)
	}
	if c.ColumnWidth <= 0 {
		return fmt.Errorf("config: column_width must be positive, got %v", c.ColumnWidth)
	}
	if _, err := c.GridOptions(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("config: refresh %q: %w", c.RefreshCron, err)
	}
	if _, err := cron.ParseStandard(c.PointerCron); err != nil {
		return fmt.Errorf("config: pointer %q: %w", c.PointerCron, err)
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		if col.Name == "" {
			return fmt.Errorf("config: columns[%d]: name is required", i)
		}
		if seen[col.ID] {
			return fmt.Errorf("config: columns[%d]: duplicate id %q", i, col.ID)
		}
		seen[col.ID] = true
		if col.CalDAV != nil && col.CalDAV.URL == "" {
			return fmt.Errorf("config: columns[%d]: caldav url is required", i)
		}
	}
	return nil
}

// GridOptions converts the geometry settings into grid options.
func (c *Config) GridOptions() (grid.Options, error) {
	start := c.StartingHour.Value()
	if start < 0 || start > 23 {
		return grid.Options{}, fmt.Errorf("config: starting_hour %d out of range", start)
	}
	end := c.EndingHour.Value()
	if end < 0 || end > 48 {
		return grid.Options{}, fmt.Errorf("config: ending_hour %d out of range", end)
	}
	return grid.Options{
		StartingHour:    start,
		EndingHour:      end,
		RowHeight:       c.RowHeight,
		ColumnWidth:     c.ColumnWidth,
		HeaderHeight:    c.HeaderHeight,
		TimeColumnWidth: c.TimeColumnWidth,
	}, nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is decoded, normalized and validated. Invalid hour
//     specifications fail here rather than at render time.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to path atomically (temp file in the
// same directory, then rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".colcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
