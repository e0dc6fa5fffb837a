// Package calendar renders appointments as iCalendar (RFC 5545) documents so
// participants can import them or receive them as mail attachments.
package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
)

const (
	ProdID   = "-//scheduleease//EN"
	MimeType = "text/calendar; charset=utf-8"
)

type Method string

const (
	MethodPublish Method = "PUBLISH"
	MethodRequest Method = "REQUEST"
	MethodCancel  Method = "CANCEL"
)

type Attendee struct {
	Name  string
	Email string
}

// Event is a single VEVENT. UID and Sequence must be stable across updates of
// the same appointment so clients replace the entry instead of duplicating it.
type Event struct {
	UID         string
	Sequence    int
	Summary     string
	Description string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
	Organizer   string
	Attendees   []Attendee
	Cancelled   bool
	Stamp       time.Time
}

func (e Event) component() *ical.Component {
	stamp := e.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.UID)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())

	seq := ical.NewProp(ical.PropSequence)
	seq.Value = strconv.Itoa(e.Sequence)
	ve.Props.Set(seq)

	if e.Summary != "" {
		ve.Props.SetText(ical.PropSummary, e.Summary)
	}
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}
	if e.URL != "" {
		u := ical.NewProp(ical.PropURL)
		u.Value = e.URL
		ve.Props.Set(u)
	}
	if e.Cancelled {
		ve.Props.SetText(ical.PropStatus, "CANCELLED")
	} else {
		ve.Props.SetText(ical.PropStatus, "CONFIRMED")
	}
	if e.Organizer != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Value = "mailto:" + e.Organizer
		ve.Props.Set(p)
	}
	for _, a := range e.Attendees {
		if a.Email == "" {
			continue
		}
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + a.Email
		if a.Name != "" {
			p.Params.Set(ical.ParamCommonName, a.Name)
		}
		ve.Props.Add(p)
	}
	return ve
}

// Encode writes a VCALENDAR holding events to w.
func Encode(w io.Writer, method Method, events ...Event) error {
	if len(events) == 0 {
		return errors.New("calendar: no events to encode")
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProdID)
	if method != "" {
		cal.Props.SetText(ical.PropMethod, string(method))
	}
	for _, e := range events {
		if e.UID == "" {
			return errors.New("calendar: event UID is required")
		}
		cal.Children = append(cal.Children, e.component())
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// Render is Encode into a byte slice.
func Render(method Method, events ...Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, method, events...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
