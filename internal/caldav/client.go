// Package caldav reads events from a CalDAV calendar collection.
package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"colcal/internal/ics"
	"colcal/internal/model"
)

// Source is a CalDAV calendar collection feeding one grid column.
type Source struct {
	ID       string
	URL      string
	Username string
	Password string
	Path     string
}

// Client queries a single CalDAV server.
type Client struct {
	src    Source
	client *caldav.Client
}

// NewClient connects lazily; no request is made until Events is called.
func NewClient(src Source) (*Client, error) {
	if src.URL == "" {
		return nil, fmt.Errorf("caldav: source %q: empty URL", src.ID)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if src.Username != "" {
		httpClient.Transport = &basicAuthTransport{username: src.Username, password: src.Password}
	}

	c, err := caldav.NewClient(httpClient, src.URL)
	if err != nil {
		return nil, fmt.Errorf("caldav: connect %q: %w", src.ID, err)
	}
	return &Client{src: src, client: c}, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// Events returns the occurrences overlapping [from, to), converted to loc.
// Recurring events are expanded locally; objects that cannot be read are
// skipped.
func (c *Client) Events(ctx context.Context, from, to time.Time, loc *time.Location) ([]model.Occurrence, error) {
	if loc == nil {
		loc = time.Local
	}

	path := c.src.Path
	if path == "" {
		path = "/"
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     "VCALENDAR",
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: from,
				End:   to,
			}},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("caldav: query %q: %w", c.src.ID, err)
	}

	var parsed []ics.ParsedEvent
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		parsed = append(parsed, events(c.src.ID, obj.Data, loc)...)
	}
	return ics.Expand(parsed, from, to, loc), nil
}

// events extracts the timed and all-day VEVENTs of one calendar object,
// recurrence data included. Components that cannot be read are skipped.
func events(sourceID string, cal *ical.Calendar, loc *time.Location) []ics.ParsedEvent {
	var out []ics.ParsedEvent
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}

		occ := model.Occurrence{SourceID: sourceID}
		if prop := comp.Props.Get(ical.PropUID); prop != nil {
			occ.UID = prop.Value
		}
		if prop := comp.Props.Get(ical.PropSummary); prop != nil {
			occ.Summary = prop.Value
		}
		if prop := comp.Props.Get(ical.PropLocation); prop != nil {
			occ.Location = prop.Value
		}
		if prop := comp.Props.Get(ical.PropColor); prop != nil {
			occ.Color = strings.TrimSpace(prop.Value)
		}

		start := comp.Props.Get(ical.PropDateTimeStart)
		if start == nil {
			continue
		}
		st, err := start.DateTime(loc)
		if err != nil {
			continue
		}
		occ.Start = st
		occ.AllDay = start.ValueType() == ical.ValueDate

		if end := comp.Props.Get(ical.PropDateTimeEnd); end != nil {
			et, err := end.DateTime(loc)
			if err != nil {
				continue
			}
			occ.End = et
		} else if occ.AllDay {
			occ.End = occ.Start.AddDate(0, 0, 1)
		} else {
			continue
		}

		ev := ics.ParsedEvent{Base: occ}
		if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
			ev.RawRRule = prop.Value
		}
		for _, prop := range comp.Props.Values(ical.PropExceptionDates) {
			for _, v := range strings.Split(prop.Value, ",") {
				single := prop
				single.Value = strings.TrimSpace(v)
				if t, err := single.DateTime(loc); err == nil {
					ev.ExDates = append(ev.ExDates, t)
				}
			}
		}
		if prop := comp.Props.Get(ical.PropRecurrenceID); prop != nil {
			rid, err := prop.DateTime(loc)
			if err != nil {
				continue
			}
			ev.RecurrenceID = &rid
		}
		out = append(out, ev)
	}
	return out
}
