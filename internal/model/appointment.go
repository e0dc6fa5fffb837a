// Package model holds the appointment domain types and the invariant checks
// that run before anything is persisted.
package model

import (
	"time"

	"github.com/google/uuid"
)

type LocationType string

const (
	LocationPhysical LocationType = "PHYSICAL"
	LocationOnline   LocationType = "ONLINE"
)

func (t LocationType) Valid() bool {
	return t == LocationPhysical || t == LocationOnline
}

// Window is a closed time interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether w and o share at least one instant, bounds included.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !w.End.Before(o.Start)
}

type Appointment struct {
	ID           uuid.UUID
	Description  string
	Category     string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	CreatorID    string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LocationType LocationType
	LocationLink string

	Location       *Location
	Participants   []Participant
	Attachments    []Attachment
	Notes          []Note
	CalendarEvents []CalendarEvent
}

func (a *Appointment) Window() Window {
	return Window{Start: a.StartTime, End: a.EndTime}
}

// Participant returns the participant with the given id, if it belongs to a.
func (a *Appointment) Participant(id uuid.UUID) (*Participant, bool) {
	for i := range a.Participants {
		if a.Participants[i].ID == id {
			return &a.Participants[i], true
		}
	}
	return nil, false
}

// RemoveParticipant drops the participant from the in-memory graph.
func (a *Appointment) RemoveParticipant(id uuid.UUID) {
	out := a.Participants[:0]
	for _, p := range a.Participants {
		if p.ID != id {
			out = append(out, p)
		}
	}
	a.Participants = out
}

type Location struct {
	ID              uuid.UUID
	AppointmentID   uuid.UUID
	Name            string
	StreetNr        string
	StreetName      string
	PostCode        string
	City            string
	StateOrProvince string
	Country         string
}

type Participant struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Name          string
	Role          string
	ContactMedium ContactMedium
}

type ContactMedium struct {
	ID         uuid.UUID
	MediumType MediumType
	Attribute  ContactMediumAttribute
}

type ContactMediumAttribute struct {
	ID              uuid.UUID
	PhoneNumber     string
	Email           string
	FaxNumber       string
	SocialNetworkID string
	Street          string
	City            string
	StateOrProvince string
	Country         string
}

type Attachment struct {
	ID             uuid.UUID
	AppointmentID  uuid.UUID
	AttachmentType string
	MimeType       string
	OriginalName   string
	Path           string
	Size           int64
	Description    string
	UploadedByID   string
	UploadedByName string
	UploadedAt     time.Time
}

type Note struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Author        string
	Text          string
	CreatedAt     time.Time
}

// CalendarEvent links an appointment to the iCalendar entry sent to participants.
type CalendarEvent struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	UID           string
	Sequence      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type LogAction string

const (
	LogActionCreate LogAction = "CREATE"
	LogActionUpdate LogAction = "UPDATE"
	LogActionDelete LogAction = "DELETE"
)

// LogEntry is an immutable audit record. OldValue is empty for CREATE.
type LogEntry struct {
	ID            uuid.UUID
	EntityID      uuid.UUID
	EntityType    string
	Action        LogAction
	OldValue      []byte
	NewValue      []byte
	CreatedByID   string
	CreatedByName string
	CreatedAt     time.Time
}
