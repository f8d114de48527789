package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	DefaultTimeout = 30 * time.Second
	// readySelector matches the root element of the rendered /calendar page.
	readySelector = `[data-ready="true"]`
)

// Options defines a Chromium screenshot of the calendar page.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar".
	URL string
	// OutputPath is where the PNG is written.
	OutputPath string

	// Width and Height set the viewport. Zero means the size of the grid
	// as reported by the caller via FitWidth/FitHeight.
	Width  int
	Height int

	// FitWidth / FitHeight are the grid's own dimensions, used when Width
	// or Height is zero.
	FitWidth  int
	FitHeight int

	// Headers are sent with every request, e.g. Authorization when the
	// page sits behind basic auth.
	Headers map[string]string

	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = o.FitWidth
	}
	if o.Height <= 0 {
		o.Height = o.FitHeight
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("capture: viewport %dx%d is empty", o.Width, o.Height)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// CalendarPNG opens opts.URL in headless Chromium, waits for the calendar
// root to report data-ready, and writes a screenshot to opts.OutputPath.
func CalendarPNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{}
	if len(opts.Headers) > 0 {
		h := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			h[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	tasks = append(tasks,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
