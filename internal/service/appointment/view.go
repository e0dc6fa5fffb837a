package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
)

// View is the externally visible shape of an appointment. It is used for
// responses, audit snapshots and event payloads alike.
type View struct {
	ID             uuid.UUID           `json:"id"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	Status         model.Status        `json:"status"`
	CreatorID      string              `json:"creator_id"`
	CreatedBy      string              `json:"created_by"`
	UpdatedBy      string              `json:"updated_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	LocationType   model.LocationType  `json:"location_type"`
	LocationLink   string              `json:"location_link,omitempty"`
	Location       *LocationView       `json:"location,omitempty"`
	Participants   []ParticipantView   `json:"participants"`
	Attachments    []AttachmentView    `json:"attachments"`
	Notes          []NoteView          `json:"notes"`
	CalendarEvents []CalendarEventView `json:"calendar_events"`
}

type LocationView struct {
	Name            string `json:"name,omitempty"`
	StreetNr        string `json:"street_nr,omitempty"`
	StreetName      string `json:"street_name,omitempty"`
	PostCode        string `json:"post_code,omitempty"`
	City            string `json:"city,omitempty"`
	StateOrProvince string `json:"state_or_province,omitempty"`
	Country         string `json:"country,omitempty"`
}

type ParticipantView struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Role          string            `json:"role,omitempty"`
	ContactMedium ContactMediumView `json:"contact_medium"`
}

type ContactMediumView struct {
	MediumType model.MediumType `json:"medium_type"`
	Attribute  AttributeView    `json:"attribute"`
}

type AttributeView struct {
	PhoneNumber     string `json:"phone_number,omitempty"`
	Email           string `json:"email,omitempty"`
	FaxNumber       string `json:"fax_number,omitempty"`
	SocialNetworkID string `json:"social_network_id,omitempty"`
	Street          string `json:"street,omitempty"`
	City            string `json:"city,omitempty"`
	StateOrProvince string `json:"state_or_province,omitempty"`
	Country         string `json:"country,omitempty"`
}

// AttachmentView omits the storage path.
type AttachmentView struct {
	ID             uuid.UUID `json:"id"`
	AttachmentType string    `json:"attachment_type"`
	MimeType       string    `json:"mime_type"`
	OriginalName   string    `json:"original_name"`
	Size           int64     `json:"size"`
	Description    string    `json:"description"`
	UploadedByID   string    `json:"uploaded_by_id"`
	UploadedByName string    `json:"uploaded_by_name"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

type NoteView struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type CalendarEventView struct {
	UID      string `json:"uid"`
	Sequence int    `json:"sequence"`
}

func NewView(a *model.Appointment) View {
	v := View{
		ID:             a.ID,
		Description:    a.Description,
		Category:       a.Category,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         a.Status,
		CreatorID:      a.CreatorID,
		CreatedBy:      a.CreatedBy,
		UpdatedBy:      a.UpdatedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		LocationType:   a.LocationType,
		LocationLink:   a.LocationLink,
		Participants:   make([]ParticipantView, 0, len(a.Participants)),
		Attachments:    make([]AttachmentView, 0, len(a.Attachments)),
		Notes:          make([]NoteView, 0, len(a.Notes)),
		CalendarEvents: make([]CalendarEventView, 0, len(a.CalendarEvents)),
	}
	if l := a.Location; l != nil {
		v.Location = &LocationView{
			Name:            l.Name,
			StreetNr:        l.StreetNr,
			StreetName:      l.StreetName,
			PostCode:        l.PostCode,
			City:            l.City,
			StateOrProvince: l.StateOrProvince,
			Country:         l.Country,
		}
	}
	for _, p := range a.Participants {
		at := p.ContactMedium.Attribute
		v.Participants = append(v.Participants, ParticipantView{
			ID:   p.ID,
			Name: p.Name,
			Role: p.Role,
			ContactMedium: ContactMediumView{
				MediumType: p.ContactMedium.MediumType,
				Attribute: AttributeView{
					PhoneNumber:     at.PhoneNumber,
					Email:           at.Email,
					FaxNumber:       at.FaxNumber,
					SocialNetworkID: at.SocialNetworkID,
					Street:          at.Street,
					City:            at.City,
					StateOrProvince: at.StateOrProvince,
					Country:         at.Country,
				},
			},
		})
	}
	for _, at := range a.Attachments {
		v.Attachments = append(v.Attachments, NewAttachmentView(at))
	}
	for _, n := range a.Notes {
		v.Notes = append(v.Notes, NoteView{ID: n.ID, Author: n.Author, Text: n.Text, CreatedAt: n.CreatedAt})
	}
	for _, e := range a.CalendarEvents {
		v.CalendarEvents = append(v.CalendarEvents, CalendarEventView{UID: e.UID, Sequence: e.Sequence})
	}
	return v
}

func NewAttachmentView(at model.Attachment) AttachmentView {
	return AttachmentView{
		ID:             at.ID,
		AttachmentType: at.AttachmentType,
		MimeType:       at.MimeType,
		OriginalName:   at.OriginalName,
		Size:           at.Size,
		Description:    at.Description,
		UploadedByID:   at.UploadedByID,
		UploadedByName: at.UploadedByName,
		UploadedAt:     at.UploadedAt,
	}
}
