package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/api/http/middleware"
	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/pkg/observability"
)

type AppointmentHandler struct {
	svc     appointment.Service
	metrics *observability.Lifecycle
}

// NewAppointmentHandler builds the handler. metrics may be nil.
func NewAppointmentHandler(svc appointment.Service, metrics *observability.Lifecycle) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, metrics: metrics}
}

// ---------------------------------------------------------------------------
// Request bodies
// ---------------------------------------------------------------------------

type locationBody struct {
	Name            string `json:"name"`
	StreetNr        string `json:"street_nr"`
	StreetName      string `json:"street_name"`
	PostCode        string `json:"post_code"`
	City            string `json:"city"`
	StateOrProvince string `json:"state_or_province"`
	Country         string `json:"country"`
}

type attributeBody struct {
	PhoneNumber     string `json:"phone_number"`
	Email           string `json:"email"`
	FaxNumber       string `json:"fax_number"`
	SocialNetworkID string `json:"social_network_id"`
	Street          string `json:"street"`
	City            string `json:"city"`
	StateOrProvince string `json:"state_or_province"`
	Country         string `json:"country"`
}

type participantBody struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	ContactMedium struct {
		Attribute attributeBody `json:"attribute"`
	} `json:"contact_medium"`
}

func (p participantBody) toModel() model.Participant {
	a := p.ContactMedium.Attribute
	return model.Participant{
		Name: strings.TrimSpace(p.Name),
		Role: strings.TrimSpace(p.Role),
		ContactMedium: model.ContactMedium{
			Attribute: model.ContactMediumAttribute{
				PhoneNumber:     a.PhoneNumber,
				Email:           a.Email,
				FaxNumber:       a.FaxNumber,
				SocialNetworkID: a.SocialNetworkID,
				Street:          a.Street,
				City:            a.City,
				StateOrProvince: a.StateOrProvince,
				Country:         a.Country,
			},
		},
	}
}

func participantsToModel(in []participantBody) []model.Participant {
	out := make([]model.Participant, 0, len(in))
	for _, p := range in {
		out = append(out, p.toModel())
	}
	return out
}

type createBody struct {
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	LocationType string            `json:"location_type"`
	LocationLink string            `json:"location_link"`
	Location     *locationBody     `json:"location"`
	Participants []participantBody `json:"participants"`
}

func (b createBody) toRequest() appointment.CreateRequest {
	req := appointment.CreateRequest{
		Description:  strings.TrimSpace(b.Description),
		Category:     strings.TrimSpace(b.Category),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		LocationType: model.LocationType(strings.ToUpper(strings.TrimSpace(b.LocationType))),
		LocationLink: strings.TrimSpace(b.LocationLink),
		Participants: participantsToModel(b.Participants),
	}
	if l := b.Location; l != nil {
		req.Location = &model.Location{
			Name:            l.Name,
			StreetNr:        l.StreetNr,
			StreetName:      l.StreetName,
			PostCode:        l.PostCode,
			City:            l.City,
			StateOrProvince: l.StateOrProvince,
			Country:         l.Country,
		}
	}
	return req
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func actorFrom(c fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFromFiber(c)
	if !ok {
		return model.Actor{}, fiber.ErrUnauthorized
	}
	return actor, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}

// parseDay accepts a calendar date or a full RFC 3339 timestamp.
func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, unprocessable("Dates must be formatted as YYYY-MM-DD")
}

// done records the operation outcome and renders either the view or the error.
func (h *AppointmentHandler) done(c fiber.Ctx, op string, v any, err error) error {
	h.metrics.Record(c.Context(), op, err)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// POST /api/v1/appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}

	var body createBody
	if err := c.Bind().JSON(&body); err != nil {
		return fail(c, badRequest("invalid request body"))
	}
	if len(body.Participants) == 0 {
		return fail(c, unprocessable("At least one participant is required"))
	}

	v, err := h.svc.Create(c.Context(), actor, body.toRequest())
	h.metrics.Record(c.Context(), "Create", err)
	if err != nil {
		return fail(c, err)
	}
	return created(c, v)
}

// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	v, err := h.svc.Get(c.Context(), id, actor)
	return h.done(c, "Get", v, err)
}

// GET /api/v1/appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}

	var q struct {
		From         string `query:"from"`
		To           string `query:"to"`
		Status       string `query:"status"`
		Category     string `query:"category"`
		LocationType string `query:"location_type"`
		CreatorID    string `query:"creator_id"`
		Desc         bool   `query:"desc"`
		Limit        int    `query:"limit"`
		Offset       int    `query:"offset"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return fail(c, unprocessable("invalid query parameters"))
	}

	from, err := parseDay(q.From)
	if err != nil {
		return fail(c, err)
	}
	to, err := parseDay(q.To)
	if err != nil {
		return fail(c, err)
	}

	res, err := h.svc.List(c.Context(), actor, appointment.ListFilter{
		From:         from,
		To:           to,
		Status:       strings.ToUpper(q.Status),
		Category:     q.Category,
		LocationType: strings.ToUpper(q.LocationType),
		CreatorID:    q.CreatorID,
		Desc:         q.Desc,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	h.metrics.Record(c.Context(), "List", err)
	if err != nil {
		return fail(c, err)
	}
	return okList(c, res.Data, res.Count)
}

// PATCH /api/v1/appointments/reschedule/:id
func (h *AppointmentHandler) Reschedule(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var body struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return fail(c, badRequest("invalid request body"))
	}

	v, err := h.svc.Reschedule(c.Context(), id, actor, appointment.RescheduleRequest{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	return h.done(c, "Reschedule", v, err)
}

// PATCH /api/v1/appointments/cancel/:id
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	v, err := h.svc.Cancel(c.Context(), id, actor)
	return h.done(c, "Cancel", v, err)
}

// PATCH /api/v1/appointments/complete/:id
func (h *AppointmentHandler) Complete(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	v, err := h.svc.Complete(c.Context(), id, actor)
	return h.done(c, "Complete", v, err)
}

// PUT /api/v1/appointments/participants/:id
func (h *AppointmentHandler) AssignParticipants(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var body struct {
		Participants []participantBody `json:"participants"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return fail(c, badRequest("invalid request body"))
	}
	if len(body.Participants) == 0 {
		return fail(c, unprocessable("At least one participant is required"))
	}

	v, err := h.svc.AssignParticipants(c.Context(), id, actor, participantsToModel(body.Participants))
	return h.done(c, "AssignParticipants", v, err)
}

// PATCH /api/v1/appointments/participants/:id/:participantId
func (h *AppointmentHandler) RemoveParticipant(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	pid, err := uuidParam(c, "participantId")
	if err != nil {
		return fail(c, err)
	}

	v, err := h.svc.RemoveParticipant(c.Context(), id, pid, actor)
	return h.done(c, "RemoveParticipant", v, err)
}

// PUT /api/v1/appointments/notes/:id
func (h *AppointmentHandler) AddNotes(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var body struct {
		Notes []string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return fail(c, badRequest("invalid request body"))
	}
	if len(body.Notes) == 0 {
		return fail(c, unprocessable("At least one note is required"))
	}

	v, err := h.svc.AddNotes(c.Context(), id, actor, body.Notes)
	return h.done(c, "AddNotes", v, err)
}

// PUT /api/v1/appointments/attachments/:id (multipart: file, description)
func (h *AppointmentHandler) AddAttachment(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, unprocessable("File is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()

	v, err := h.svc.AddAttachment(c.Context(), id, actor, appointment.AttachmentUpload{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get(fiber.HeaderContentType),
		Size:         fh.Size,
		Description:  c.FormValue("description"),
		Body:         f,
	})
	return h.done(c, "AddAttachment", v, err)
}

// GET /api/v1/appointments/:id/calendar.ics
func (h *AppointmentHandler) CalendarFile(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	data, err := h.svc.CalendarFile(c.Context(), id, actor)
	h.metrics.Record(c.Context(), "CalendarFile", err)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="appointment-`+id.String()+`.ics"`)
	return c.Send(data)
}
