package capture

import (
	"context"
	"testing"
)

func TestCalendarPNG_ValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing url", Options{OutputPath: "x.png", Width: 10, Height: 10}},
		{"missing output", Options{URL: "http://127.0.0.1/calendar", Width: 10, Height: 10}},
		{"empty viewport", Options{URL: "http://127.0.0.1/calendar", OutputPath: "x.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CalendarPNG(context.Background(), tt.opts); err == nil {
				t.Error("CalendarPNG() error = nil, want error")
			}
		})
	}
}

func TestNormalize_FitsGrid(t *testing.T) {
	o := Options{URL: "http://x/calendar", OutputPath: "x.png", FitWidth: 536, FitHeight: 1472}
	if err := o.normalize(); err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if o.Width != 536 || o.Height != 1472 || o.Timeout != DefaultTimeout {
		t.Errorf("normalized = %+v", o)
	}
}
