package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/pkg/calendar"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

func CalendarUID(id uuid.UUID) string {
	return id.String() + "@" + constants.AppName
}

func formatAddress(l *model.Location) string {
	if l == nil {
		return ""
	}
	var parts []string
	add := func(s ...string) {
		joined := strings.TrimSpace(strings.Join(s, " "))
		if joined != "" {
			parts = append(parts, joined)
		}
	}
	add(l.Name)
	add(l.StreetNr, l.StreetName)
	add(l.PostCode, l.City)
	add(l.StateOrProvince)
	add(l.Country)
	return strings.Join(parts, ", ")
}

// CalendarEventFor maps a view onto the iCalendar entry sent to participants.
func CalendarEventFor(v View, organizer string) calendar.Event {
	ev := calendar.Event{
		UID:         CalendarUID(v.ID),
		Summary:     v.Category,
		Description: v.Description,
		Start:       v.StartTime,
		End:         v.EndTime,
		Organizer:   organizer,
		Cancelled:   v.Status == model.StatusCancelled,
		Stamp:       v.UpdatedAt,
	}
	if len(v.CalendarEvents) > 0 {
		ev.UID = v.CalendarEvents[0].UID
		ev.Sequence = v.CalendarEvents[0].Sequence
	}
	if ev.Summary == "" {
		ev.Summary = "Appointment"
	}

	if v.LocationType == model.LocationOnline {
		ev.Location = v.LocationLink
		ev.URL = v.LocationLink
	} else if v.Location != nil {
		l := v.Location
		ev.Location = formatAddress(&model.Location{
			Name: l.Name, StreetNr: l.StreetNr, StreetName: l.StreetName, PostCode: l.PostCode,
			City: l.City, StateOrProvince: l.StateOrProvince, Country: l.Country,
		})
	}

	for _, p := range v.Participants {
		ev.Attendees = append(ev.Attendees, calendar.Attendee{Name: p.Name, Email: p.ContactMedium.Attribute.Email})
	}
	return ev
}

// CalendarFile renders the appointment as a standalone .ics document.
func (m *Manager) CalendarFile(ctx context.Context, id uuid.UUID, actor model.Actor) ([]byte, error) {
	const op = "CalendarFile"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	out, err := calendar.Render(calendar.MethodPublish, CalendarEventFor(NewView(a), m.cfg.Organizer))
	if err != nil {
		return nil, m.fail(op, err)
	}
	return out, nil
}
