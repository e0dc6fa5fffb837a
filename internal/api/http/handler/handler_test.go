package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/internal/api/http/middleware"
	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/internal/service/auth"
	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
)

// fakeAppointments embeds the interface so unused methods panic loudly.
type fakeAppointments struct {
	appointment.Service

	createReq  appointment.CreateRequest
	listFilter appointment.ListFilter
	upload     appointment.AttachmentUpload
	uploadBody string
	view       *appointment.View
	list       *appointment.ListResult
	err        error
}

func (f *fakeAppointments) Create(_ context.Context, _ model.Actor, req appointment.CreateRequest) (*appointment.View, error) {
	f.createReq = req
	return f.view, f.err
}

func (f *fakeAppointments) Get(_ context.Context, _ uuid.UUID, _ model.Actor) (*appointment.View, error) {
	return f.view, f.err
}

func (f *fakeAppointments) List(_ context.Context, _ model.Actor, lf appointment.ListFilter) (*appointment.ListResult, error) {
	f.listFilter = lf
	return f.list, f.err
}

func (f *fakeAppointments) AddAttachment(_ context.Context, _ uuid.UUID, _ model.Actor, up appointment.AttachmentUpload) (*appointment.AttachmentView, error) {
	f.upload = up
	b, _ := io.ReadAll(up.Body)
	f.uploadBody = string(b)
	return &appointment.AttachmentView{OriginalName: up.OriginalName}, f.err
}

func (f *fakeAppointments) CalendarFile(_ context.Context, _ uuid.UUID, _ model.Actor) ([]byte, error) {
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), f.err
}

// withActor stands in for AuthRequired.
func withActor(c fiber.Ctx) error {
	c.Locals(middleware.LocalActor, model.Actor{Subject: "u-1", DisplayName: "jdoe", Roles: []string{"creator"}})
	return c.Next()
}

func newApp(h *AppointmentHandler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	g := app.Group("/appointments", withActor)
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Put("/attachments/:id", h.AddAttachment)
	g.Get("/:id/calendar.ics", h.CalendarFile)
	g.Get("/:id", h.Get)
	return app
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestCreateAppointment(t *testing.T) {
	id := uuid.New()
	svc := &fakeAppointments{view: &appointment.View{ID: id, Status: model.StatusCreated}}
	app := newApp(NewAppointmentHandler(svc, nil))

	body := `{
		"description": "Boiler check",
		"start_time": "2030-06-10T10:00:00Z",
		"end_time": "2030-06-10T11:00:00Z",
		"location_type": "physical",
		"participants": [{"name": "Ann", "contact_medium": {"attribute": {"email": "ann@example.com"}}}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decode(t, resp)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, "Created", env.Message)

	assert.Equal(t, model.LocationPhysical, svc.createReq.LocationType)
	assert.Equal(t, time.Date(2030, 6, 10, 10, 0, 0, 0, time.UTC), svc.createReq.StartTime.UTC())
	require.Len(t, svc.createReq.Participants, 1)
	assert.Equal(t, "ann@example.com", svc.createReq.Participants[0].ContactMedium.Attribute.Email)
}

func TestCreateWithoutParticipants(t *testing.T) {
	app := newApp(NewAppointmentHandler(&fakeAppointments{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(`{"description":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServiceErrorsBecomeEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "not found",
			err:     &appointment.Error{Kind: appointment.KindNotFound, Message: "appointment not found"},
			status:  http.StatusNotFound,
			message: "appointment not found",
		},
		{
			name:    "bad filter",
			err:     &appointment.Error{Kind: appointment.KindBadFilter, Message: "Please provide a startDateTimeFrom when specifying startDateTimeTo."},
			status:  http.StatusUnprocessableEntity,
			message: "Please provide a startDateTimeFrom when specifying startDateTimeTo.",
		},
		{
			name:    "untyped",
			err:     errors.New("pq: connection refused"),
			status:  http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(NewAppointmentHandler(&fakeAppointments{err: tt.err}, nil))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			env := decode(t, resp)
			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, tt.message, env.Message)
			assert.Nil(t, env.Data)
		})
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	app := newApp(NewAppointmentHandler(&fakeAppointments{}, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPassesFiltersAndCount(t *testing.T) {
	svc := &fakeAppointments{list: &appointment.ListResult{Data: []appointment.View{{}, {}}, Count: 7}}
	app := newApp(NewAppointmentHandler(svc, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/appointments?from=2030-06-10&to=2030-06-12&status=cancelled&desc=true&limit=2&offset=4", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decode(t, resp)
	require.NotNil(t, env.Count)
	assert.Equal(t, 7, *env.Count)
	assert.Len(t, env.Data, 2)

	f := svc.listFilter
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, 10, f.From.Day())
	assert.Equal(t, 12, f.To.Day())
	assert.Equal(t, "CANCELLED", f.Status)
	assert.True(t, f.Desc)
	assert.Equal(t, 2, f.Limit)
	assert.Equal(t, 4, f.Offset)
}

func TestListRejectsBadDate(t *testing.T) {
	app := newApp(NewAppointmentHandler(&fakeAppointments{}, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/appointments?from=10/06/2030", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddAttachment(t *testing.T) {
	svc := &fakeAppointments{}
	app := newApp(NewAppointmentHandler(svc, nil))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("description", "Site report"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/appointments/attachments/"+uuid.NewString(), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "report.pdf", svc.upload.OriginalName)
	assert.Equal(t, "Site report", svc.upload.Description)
	assert.Equal(t, int64(8), svc.upload.Size)
	assert.Equal(t, "%PDF-1.7", svc.uploadBody)
}

func TestAddAttachmentRequiresFile(t *testing.T) {
	app := newApp(NewAppointmentHandler(&fakeAppointments{}, nil))

	req := httptest.NewRequest(http.MethodPut, "/appointments/attachments/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCalendarFile(t *testing.T) {
	app := newApp(NewAppointmentHandler(&fakeAppointments{}, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString()+"/calendar.ics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/calendar; charset=utf-8", resp.Header.Get("Content-Type"))

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "BEGIN:VCALENDAR")
}

type fakeAuth struct {
	tok *keycloak.Token
	err error
}

func (f *fakeAuth) Token(context.Context, auth.TokenRequest) (*keycloak.Token, error) {
	return f.tok, f.err
}

func TestTokenLockedAccount(t *testing.T) {
	app := fiber.New()
	app.Post("/auth/token", NewAuthHandler(&fakeAuth{err: auth.ErrAccountLocked}).Token)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, auth.ErrAccountLocked.Message, decode(t, resp).Message)
}
