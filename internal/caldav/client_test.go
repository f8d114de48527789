package caldav

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"

	"colcal/internal/ics"
)

const sampleObject = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//colcal//test//EN
BEGIN:VEVENT
UID:dentist
DTSTAMP:20260301T000000Z
DTSTART:20260316T150000Z
DTEND:20260316T154500Z
SUMMARY:Dentist
COLOR:plum
END:VEVENT
BEGIN:VEVENT
UID:trip
DTSTAMP:20260301T000000Z
DTSTART;VALUE=DATE:20260320
SUMMARY:Trip
END:VEVENT
BEGIN:VEVENT
UID:piano
DTSTAMP:20260301T000000Z
DTSTART:20260316T170000Z
DTEND:20260316T180000Z
RRULE:FREQ=WEEKLY
EXDATE:20260330T170000Z
SUMMARY:Piano
END:VEVENT
BEGIN:VEVENT
UID:piano
DTSTAMP:20260301T000000Z
RECURRENCE-ID:20260323T170000Z
DTSTART:20260323T190000Z
DTEND:20260323T200000Z
SUMMARY:Piano (late)
END:VEVENT
BEGIN:VEVENT
UID:open-ended
DTSTAMP:20260301T000000Z
DTSTART:20260316T180000Z
SUMMARY:No end
END:VEVENT
END:VCALENDAR
`

func decodeSample(t *testing.T) *ical.Calendar {
	t.Helper()
	body := strings.ReplaceAll(sampleObject, "\n", "\r\n")
	cal, err := ical.NewDecoder(strings.NewReader(body)).Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return cal
}

func TestEvents(t *testing.T) {
	evs := events("family", decodeSample(t), time.UTC)
	if len(evs) != 4 {
		t.Fatalf("len(events) = %d, want 4: %+v", len(evs), evs)
	}

	dentist := evs[0].Base
	if dentist.SourceID != "family" || dentist.Summary != "Dentist" || dentist.Color != "plum" {
		t.Errorf("dentist = %+v", dentist)
	}
	if dentist.End.Sub(dentist.Start) != 45*time.Minute {
		t.Errorf("dentist duration = %v, want 45m", dentist.End.Sub(dentist.Start))
	}

	trip := evs[1].Base
	if !trip.AllDay || trip.End.Sub(trip.Start) != 24*time.Hour {
		t.Errorf("trip = %+v, want a one-day all-day event", trip)
	}

	piano := evs[2]
	if piano.RawRRule != "FREQ=WEEKLY" || len(piano.ExDates) != 1 {
		t.Errorf("piano = %+v", piano)
	}
	if evs[3].RecurrenceID == nil {
		t.Error("override has no RecurrenceID")
	}
}

func TestEvents_Expanded(t *testing.T) {
	evs := events("family", decodeSample(t), time.UTC)

	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.March, 16, "Dentist|Piano"},
		{time.March, 23, "Piano (late)"},
		{time.March, 30, ""},
		{time.April, 6, "Piano"},
	}
	for _, tt := range tests {
		from := time.Date(2026, tt.month, tt.day, 8, 0, 0, 0, time.UTC)
		occs := ics.Expand(evs, from, from.Add(12*time.Hour), time.UTC)
		var got []string
		for _, o := range occs {
			got = append(got, o.Summary)
		}
		if strings.Join(got, "|") != tt.want {
			t.Errorf("%s %d: summaries = %q, want %q", tt.month, tt.day, got, tt.want)
		}
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(Source{ID: "x"}); err == nil {
		t.Error("NewClient() error = nil, want error")
	}
}
