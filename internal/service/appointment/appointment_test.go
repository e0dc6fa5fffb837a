package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/internal/model"
)

var (
	testNow = time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)

	manager = model.Actor{Subject: "mgr-1", DisplayName: "Morgan", Roles: []string{"manager"}}
	alice   = model.Actor{Subject: "user-alice", DisplayName: "Alice", Roles: []string{"user"}}
	bob     = model.Actor{Subject: "user-bob", DisplayName: "Bob", Roles: []string{"user"}}
)

type fixture struct {
	m     *Manager
	clock time.Time
	repo  *memRepo
	files *memFiles
	pub   *memPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, DefaultConfig())
}

func newFixtureWith(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{clock: testNow, repo: newMemRepo(), files: newMemFiles(), pub: &memPublisher{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.m = newManager(f.repo, f.files, f.pub, logger, cfg, WithClock(func() time.Time { return f.clock }))
	return f
}

func participant(name, email, phone string) model.Participant {
	return model.Participant{
		Name: name,
		Role: "customer",
		ContactMedium: model.ContactMedium{
			Attribute: model.ContactMediumAttribute{Email: email, PhoneNumber: phone},
		},
	}
}

func createReq(start time.Time, minutes int, ps ...model.Participant) CreateRequest {
	return CreateRequest{
		Description:  "Boiler service",
		Category:     "repair",
		StartTime:    start,
		EndTime:      start.Add(time.Duration(minutes) * time.Minute),
		LocationType: model.LocationPhysical,
		Location:     &model.Location{StreetNr: "12", StreetName: "Main St", City: "Springfield"},
		Participants: ps,
	}
}

func (f *fixture) create(t *testing.T, actor model.Actor, req CreateRequest) *View {
	t.Helper()
	v, err := f.m.Create(context.Background(), actor, req)
	require.NoError(t, err)
	return v
}

// ---------------------------------------------------------------------------
// Time Validator
// ---------------------------------------------------------------------------

func TestValidateWindow(t *testing.T) {
	now := testNow
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		max     int
		want    error
		message string
	}{
		{"start in past", now.Add(-time.Minute), now.Add(time.Hour), 240, ErrInvalidWindow, "Appointment Start date or end date cannot be in the past"},
		{"end in past", now.Add(time.Hour), now.Add(-time.Minute), 240, ErrInvalidWindow, "Appointment Start date or end date cannot be in the past"},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), 240, ErrInvalidWindow, "Appointment end date cannot be before start date"},
		{"too short", now.Add(time.Hour), now.Add(time.Hour + 14*time.Minute), 240, ErrTooShort, "Appointment Schedule must be at least 15 minutes"},
		{"too long in hours", now.Add(time.Hour), now.Add(time.Hour + 241*time.Minute), 240, ErrTooLong, "Appointment duration cannot exceed 4 hours"},
		{"too long fractional hours", now.Add(time.Hour), now.Add(time.Hour + 91*time.Minute), 90, ErrTooLong, "Appointment duration cannot exceed 1.5 hours"},
		{"too long in minutes", now.Add(time.Hour), now.Add(time.Hour + 61*time.Minute), 60, ErrTooLong, "Appointment duration cannot exceed 60 minutes"},
		{"exactly min", now.Add(time.Hour), now.Add(time.Hour + 15*time.Minute), 240, nil, ""},
		{"exactly max", now.Add(time.Hour), now.Add(time.Hour + 240*time.Minute), 240, nil, ""},
		{"unbounded max", now.Add(time.Hour), now.Add(48 * time.Hour), 0, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.start, tt.end, now, 15, tt.max)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, err.Error())
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, 400, e.HTTPStatus())
		})
	}
}

// ---------------------------------------------------------------------------
// Create and conflicts
// ---------------------------------------------------------------------------

func TestCreateScenario(t *testing.T) {
	f := newFixture(t)
	req := createReq(testNow.Add(10*time.Minute), 20,
		participant("Ada", "ada@example.com", ""),
		participant("Grace", "grace@example.com", ""),
	)

	v := f.create(t, manager, req)

	assert.Equal(t, model.StatusCreated, v.Status)
	assert.Equal(t, "mgr-1", v.CreatorID)
	assert.Equal(t, "Morgan", v.CreatedBy)
	require.Len(t, v.Participants, 2)
	assert.Equal(t, model.MediumEmail, v.Participants[0].ContactMedium.MediumType)
	require.Len(t, v.CalendarEvents, 1)
	assert.Equal(t, 0, v.CalendarEvents[0].Sequence)

	logs := f.repo.logsFor(v.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, model.LogActionCreate, logs[0].Action)
	assert.Empty(t, logs[0].OldValue)
	assert.Equal(t, "appointment", logs[0].EntityType)

	var snap View
	require.NoError(t, json.Unmarshal(logs[0].NewValue, &snap))
	assert.Equal(t, v.ID, snap.ID)

	assert.Equal(t, []string{Subject(EventCreated, v.ID)}, f.pub.subjects)
}

func TestActorNameFallsBackToSubject(t *testing.T) {
	f := newFixture(t)
	anon := model.Actor{Subject: "svc-account", Roles: []string{"manager"}}

	v := f.create(t, anon, createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	assert.Equal(t, "svc-account", v.CreatedBy)

	logs := f.repo.logsFor(v.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "svc-account", logs[0].CreatedByID)
	assert.Equal(t, "svc-account", logs[0].CreatedByName)

	require.Len(t, f.pub.payloads, 1)
	var ev Event
	require.NoError(t, json.Unmarshal(f.pub.payloads[0], &ev))
	assert.Equal(t, "svc-account", ev.ActorName)
}

func TestNewUsesClockOption(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, newMemFiles(), nil, nil, DefaultConfig(), WithClock(func() time.Time { return testNow }))

	v, err := svc.Create(context.Background(), manager,
		createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	require.NoError(t, err)
	assert.True(t, v.CreatedAt.Equal(testNow))

	// The same window is in the past once the clock moves beyond it.
	late := New(repo, newMemFiles(), nil, nil, DefaultConfig(), WithClock(func() time.Time { return testNow.Add(3 * time.Hour) }))
	_, err = late.Create(context.Background(), manager,
		createReq(testNow.Add(time.Hour), 30, participant("Bo", "bo@example.com", "")))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateConflicts(t *testing.T) {
	start := testNow.Add(time.Hour)

	tests := []struct {
		name     string
		second   CreateRequest
		conflict bool
	}{
		{
			name:     "shared email overlapping",
			second:   createReq(start.Add(30*time.Minute), 60, participant("Eve", "ADA@example.com ", "")),
			conflict: true,
		},
		{
			name:     "shared phone in another notation",
			second:   createReq(start.Add(30*time.Minute), 60, participant("Eve", "", "(650) 253-0000")),
			conflict: true,
		},
		{
			name:     "straddling window",
			second:   createReq(start.Add(-30*time.Minute), 180, participant("Eve", "ada@example.com", "")),
			conflict: true,
		},
		{
			name:     "touching bound",
			second:   createReq(start.Add(time.Hour), 30, participant("Eve", "ada@example.com", "")),
			conflict: true,
		},
		{
			name:   "disjoint window",
			second: createReq(start.Add(2*time.Hour), 30, participant("Eve", "ada@example.com", "")),
		},
		{
			name:   "disjoint identities",
			second: createReq(start, 60, participant("Eve", "eve@example.com", "+442071838750")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.create(t, manager, createReq(start, 60, participant("Ada", "ada@example.com", "+16502530000")))

			_, err := f.m.Create(context.Background(), manager, tt.second)
			if tt.conflict {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConflictDetected)
				assert.Equal(t, "Appointment conflict detected.", err.Error())
				assert.Len(t, f.repo.logs, 1)
			} else {
				assert.NoError(t, err)
				assert.Len(t, f.repo.logs, 2)
			}
		})
	}
}

func TestHasConflictIgnoresCancelled(t *testing.T) {
	f := newFixture(t)
	start := testNow.Add(time.Hour)
	v := f.create(t, manager, createReq(start, 60, participant("Ada", "ada@example.com", "")))
	_, err := f.m.Cancel(context.Background(), v.ID, manager)
	require.NoError(t, err)

	found, err := f.m.HasConflict(context.Background(), model.Window{Start: start, End: start.Add(time.Hour)},
		[]model.Participant{participant("Eve", "ada@example.com", "")}, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHasConflictNoIdentities(t *testing.T) {
	f := newFixture(t)
	f.repo.conflictErr = errors.New("must not be queried")

	found, err := f.m.HasConflict(context.Background(), model.Window{Start: testNow, End: testNow.Add(time.Hour)}, nil, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateConflictCheckFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.conflictErr = errors.New("connection reset")

	_, err := f.m.Create(context.Background(), manager, createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictCheckFailed)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 500, e.HTTPStatus())
	assert.Empty(t, f.repo.appts)
}

func TestCreateValidation(t *testing.T) {
	start := testNow.Add(time.Hour)

	online := createReq(start, 30, participant("Ada", "ada@example.com", ""))
	online.LocationType = model.LocationOnline

	tests := []struct {
		name    string
		req     CreateRequest
		want    error
		message string
	}{
		{"online without link", online, ErrInvalidInput, "Location or meeting link is required for online appointments."},
		{"participant without phone or email", createReq(start, 30, participant("Ada", "", "")), ErrInvalidInput, "Either phoneNumber or email is required"},
		{"no participants", createReq(start, 30), ErrInvalidInput, "At least one participant is required"},
		{"window in the past", createReq(testNow.Add(-time.Hour), 30, participant("Ada", "ada@example.com", "")), ErrInvalidWindow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.m.Create(context.Background(), manager, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
			assert.Zero(t, f.repo.writes)
		})
	}
}

func TestCreateRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.insertErr = errors.New("unique violation")

	_, err := f.m.Create(context.Background(), manager, createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "DB or Query Error: unique violation", err.Error())
	assert.Empty(t, f.repo.appts)
	assert.Empty(t, f.repo.logs)
	assert.Empty(t, f.pub.subjects)
}

func TestCreatePublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("nats: connection closed")

	_, err := f.m.Create(context.Background(), manager, createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestGet(t *testing.T) {
	f := newFixture(t)
	v := f.create(t, alice, createReq(testNow.Add(time.Hour), 30, participant("Ada", "ada@example.com", "")))
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		first, err := f.m.Get(ctx, v.ID, alice)
		require.NoError(t, err)
		writes := f.repo.writes
		second, err := f.m.Get(ctx, v.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, writes, f.repo.writes)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		_, err := f.m.Get(ctx, v.ID, bob)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "appointment not found", err.Error())
	})

	t.Run("manager sees everything", func(t *testing.T) {
		_, err := f.m.Get(ctx, v.ID, manager)
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.m.Get(ctx, uuid.New(), manager)
		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, 404, e.HTTPStatus())
	})
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

func TestCheckStatus(t *testing.T) {
	for _, s := range []model.Status{model.StatusCreated, model.StatusAssigned, model.StatusRescheduled} {
		assert.NoError(t, CheckStatus(s))
	}
	for _, s := range []model.Status{model.StatusCancelled, model.StatusCompleted} {
		err := CheckStatus(s)
		assert.ErrorIs(t, err, ErrAppointmentClosed)
		assert.Equal(t, "Appointment has been cancelled or completed", err.Error())
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := testNow.Add(time.Hour)
	v := f.create(t, manager, createReq(start, 60, participant("Ada", "ada@example.com", "")))

	// Overlaps its own current window; must not conflict with itself.
	got, err := f.m.Reschedule(ctx, v.ID, manager, RescheduleRequest{StartTime: start.Add(30 * time.Minute), EndTime: start.Add(90 * time.Minute)})
	require.NoError(t, err)

	assert.Equal(t, model.StatusRescheduled, got.Status)
	assert.True(t, got.StartTime.Equal(start.Add(30*time.Minute)))
	assert.Equal(t, 1, got.CalendarEvents[0].Sequence)

	logs := f.repo.logsFor(v.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, model.LogActionUpdate, logs[1].Action)

	var before, after View
	require.NoError(t, json.Unmarshal(logs[1].OldValue, &before))
	require.NoError(t, json.Unmarshal(logs[1].NewValue, &after))
	assert.Equal(t, model.StatusCreated, before.Status)
	assert.Equal(t, model.StatusRescheduled, after.Status)

	stored, err := f.m.Get(ctx, v.ID, manager)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CalendarEvents[0].Sequence)
}

func TestRescheduleConflictWithOther(t *testing.T) {
	f := newFixture(t)
	start := testNow.Add(time.Hour)
	f.create(t, manager, createReq(start, 60, participant("Ada", "ada@example.com", "")))
	v := f.create(t, manager, createReq(start.Add(3*time.Hour), 60, participant("Ada", "ada@example.com", "")))

	_, err := f.m.Reschedule(context.Background(), v.ID, manager, RescheduleRequest{StartTime: start, EndTime: start.Add(30 * time.Minute)})
	assert.ErrorIs(t, err, ErrConflictDetected)
}

func TestRescheduleCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := testNow.Add(time.Hour)
	v := f.create(t, manager, createReq(start, 60, participant("Ada", "ada@example.com", "")))
	_, err := f.m.Cancel(ctx, v.ID, manager)
	require.NoError(t, err)

	writes := f.repo.writes
	logs := len(f.repo.logsFor(v.ID))

	_, err = f.m.Reschedule(ctx, v.ID, manager, RescheduleRequest{StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
	assert.Equal(t, writes, f.repo.writes)
	assert.Len(t, f.repo.logsFor(v.ID), logs)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	got, err := f.m.Cancel(ctx, v.ID, manager)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, 1, got.CalendarEvents[0].Sequence)
	assert.Contains(t, f.pub.subjects, Subject(EventCancelled, v.ID))

	_, err = f.m.Cancel(ctx, v.ID, manager)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
	assert.Equal(t, "Cannot update a cancelled or completed appointment.", err.Error())
}

func TestCompleteThenCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	got, err := f.m.Complete(ctx, v.ID, manager)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	_, err = f.m.Cancel(ctx, v.ID, manager)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
	_, err = f.m.Complete(ctx, v.ID, manager)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

func TestAssignParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	got, err := f.m.AssignParticipants(ctx, v.ID, manager, []model.Participant{
		participant("Tech", "", "+16502530000"),
		participant("Lead", "LEAD@example.com", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, got.Status)
	require.Len(t, got.Participants, 3)
	assert.Equal(t, "lead@example.com", got.Participants[2].ContactMedium.Attribute.Email)
	assert.Equal(t, model.MediumPhoneNumber, got.Participants[1].ContactMedium.MediumType)
	assert.Len(t, f.repo.logsFor(v.ID), 2)

	t.Run("invalid participant aborts before writes", func(t *testing.T) {
		writes := f.repo.writes
		_, err := f.m.AssignParticipants(ctx, v.ID, manager, []model.Participant{participant("Nobody", "", "")})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, writes, f.repo.writes)
	})
}

func TestRemoveParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60,
		participant("Ada", "ada@example.com", ""),
		participant("Grace", "grace@example.com", ""),
	))

	t.Run("unknown participant", func(t *testing.T) {
		_, err := f.m.RemoveParticipant(ctx, v.ID, uuid.New(), manager)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "participant not found", err.Error())
	})

	t.Run("two to one", func(t *testing.T) {
		got, err := f.m.RemoveParticipant(ctx, v.ID, v.Participants[0].ID, manager)
		require.NoError(t, err)
		require.Len(t, got.Participants, 1)
		assert.Equal(t, "Grace", got.Participants[0].Name)

		logs := f.repo.logsFor(v.ID)
		last := logs[len(logs)-1]
		var before, after View
		require.NoError(t, json.Unmarshal(last.OldValue, &before))
		require.NoError(t, json.Unmarshal(last.NewValue, &after))
		assert.Len(t, before.Participants, 2)
		assert.Len(t, after.Participants, 1)
	})

	t.Run("last participant", func(t *testing.T) {
		_, err := f.m.RemoveParticipant(ctx, v.ID, v.Participants[1].ID, manager)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLastParticipant)
		var e *Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, 400, e.HTTPStatus())
	})
}

// ---------------------------------------------------------------------------
// Notes and attachments
// ---------------------------------------------------------------------------

func TestAddNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	got, err := f.m.AddNotes(ctx, v.ID, manager, []string{"bring ladder", "call first"})
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "Morgan", got.Notes[0].Author)
	assert.Len(t, f.repo.logsFor(v.ID), 2)

	t.Run("first invalid note stops the rest", func(t *testing.T) {
		_, err := f.m.AddNotes(ctx, v.ID, manager, []string{"ok", strings.Repeat("x", 1001), "never stored"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)

		stored, err := f.m.Get(ctx, v.ID, manager)
		require.NoError(t, err)
		require.Len(t, stored.Notes, 3)
		assert.Equal(t, "ok", stored.Notes[2].Text)
		assert.Len(t, f.repo.logsFor(v.ID), 3)
	})

	t.Run("persistence failure keeps earlier notes", func(t *testing.T) {
		f.repo.noteErrAt = f.repo.notesSeen + 1
		_, err := f.m.AddNotes(ctx, v.ID, manager, []string{"kept", "lost"})
		assert.ErrorIs(t, err, ErrPersistence)

		stored, err := f.m.Get(ctx, v.ID, manager)
		require.NoError(t, err)
		assert.Equal(t, "kept", stored.Notes[len(stored.Notes)-1].Text)
	})
}

func TestAddAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	upload := func(name string, size int64) AttachmentUpload {
		return AttachmentUpload{OriginalName: name, MimeType: "application/pdf", Size: size, Body: strings.NewReader(strings.Repeat("a", int(min(size, 16))))}
	}

	got, err := f.m.AddAttachment(ctx, v.ID, manager, upload("Invoice.PDF", 16))
	require.NoError(t, err)
	assert.Equal(t, "pdf", got.AttachmentType)
	assert.Equal(t, DefaultAttachmentDescription, got.Description)
	assert.Equal(t, "mgr-1", got.UploadedByID)
	assert.Len(t, f.files.saved, 1)

	t.Run("too large", func(t *testing.T) {
		_, err := f.m.AddAttachment(ctx, v.ID, manager, upload("big.pdf", 5<<20+1))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing extension", func(t *testing.T) {
		_, err := f.m.AddAttachment(ctx, v.ID, manager, upload("README", 16))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("failed insert removes the file", func(t *testing.T) {
		f.repo.insertErr = errors.New("boom")
		defer func() { f.repo.insertErr = nil }()

		_, err := f.m.AddAttachment(ctx, v.ID, manager, upload("photo.jpg", 16))
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Len(t, f.files.removed, 1)
		assert.Len(t, f.files.saved, 1)
	})

	t.Run("closed appointment", func(t *testing.T) {
		_, err := f.m.Cancel(ctx, v.ID, manager)
		require.NoError(t, err)
		_, err = f.m.AddAttachment(ctx, v.ID, manager, upload("late.pdf", 16))
		assert.ErrorIs(t, err, ErrAppointmentClosed)
	})
}

// ---------------------------------------------------------------------------
// Calendar export
// ---------------------------------------------------------------------------

func TestCalendarFile(t *testing.T) {
	f := newFixture(t)
	v := f.create(t, manager, createReq(testNow.Add(time.Hour), 60, participant("Ada", "ada@example.com", "")))

	out, err := f.m.CalendarFile(context.Background(), v.ID, manager)
	require.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, CalendarUID(v.ID))
	assert.Contains(t, body, "mailto:ada@example.com")
	assert.Contains(t, body, "12 Main St")
	assert.Contains(t, body, "Springfield")
}
