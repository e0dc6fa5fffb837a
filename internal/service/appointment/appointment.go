// Package appointment owns the appointment lifecycle: window validation,
// double-booking detection, status transitions, audit logging and listing.
package appointment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/store"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Description  string
	Category     string
	StartTime    time.Time
	EndTime      time.Time
	LocationType model.LocationType
	LocationLink string
	Location     *model.Location
	Participants []model.Participant
}

type RescheduleRequest struct {
	StartTime time.Time
	EndTime   time.Time
}

type AttachmentUpload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Description  string
	Body         io.Reader
}

const DefaultAttachmentDescription = "Appointment Attachment"

// FileStore keeps attachment bytes. Save returns a path unique per call.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, error)
	Remove(ctx context.Context, path string) error
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, actor model.Actor, req CreateRequest) (*View, error)
	Get(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error)
	List(ctx context.Context, actor model.Actor, f ListFilter) (*ListResult, error)
	Reschedule(ctx context.Context, id uuid.UUID, actor model.Actor, req RescheduleRequest) (*View, error)
	Cancel(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error)
	Complete(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error)
	AssignParticipants(ctx context.Context, id uuid.UUID, actor model.Actor, ps []model.Participant) (*View, error)
	RemoveParticipant(ctx context.Context, id, participantID uuid.UUID, actor model.Actor) (*View, error)
	AddNotes(ctx context.Context, id uuid.UUID, actor model.Actor, texts []string) (*View, error)
	AddAttachment(ctx context.Context, id uuid.UUID, actor model.Actor, up AttachmentUpload) (*AttachmentView, error)
	CalendarFile(ctx context.Context, id uuid.UUID, actor model.Actor) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Manager struct {
	repo   store.Repository
	files  FileStore
	pub    Publisher
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

var _ Service = (*Manager)(nil)

// Option customises a Manager built by New.
type Option func(*Manager)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func New(repo store.Repository, files FileStore, pub Publisher, logger *slog.Logger, cfg Config, opts ...Option) Service {
	return newManager(repo, files, pub, logger, cfg, opts...)
}

func newManager(repo store.Repository, files FileStore, pub Publisher, logger *slog.Logger, cfg Config, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	m := &Manager{
		repo:   repo,
		files:  files,
		pub:    pub,
		logger: logger.With(slog.String("component", "appointment")),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// fail classifies err and logs it once with the operation name.
func (m *Manager) fail(op string, err error) error {
	e := asError(err)
	switch e.Kind {
	case KindPersistence:
		m.logger.Error(e.Message, slog.String("op", op), slog.Any("error", e.Err))
	case KindConflictCheckFailed:
		// logged where the lookup failed
	default:
		m.logger.Info(e.Message, slog.String("op", op), slog.String("kind", string(e.Kind)))
	}
	return e
}

func invalidInput(err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return newError(KindInvalidInput, ve.Msg)
	}
	return err
}

// CheckStatus rejects any status that no longer accepts mutations.
func CheckStatus(s model.Status) error {
	if !s.Open() {
		return newError(KindAppointmentClosed, msgClosed)
	}
	return nil
}

func displayName(actor model.Actor) string {
	if actor.DisplayName != "" {
		return actor.DisplayName
	}
	return actor.Subject
}

// load fetches the full graph. Actors with a "user" role only see their own
// appointments; anything else is reported as not found.
func (m *Manager) load(ctx context.Context, id uuid.UUID, actor model.Actor) (*model.Appointment, error) {
	a, err := m.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || (actor.IsUserRole() && a.CreatorID != actor.Subject) {
		return nil, newError(KindNotFound, msgNotFound)
	}
	return a, nil
}

func (m *Manager) prepareParticipants(ps []model.Participant) error {
	if len(ps) == 0 {
		return newError(KindInvalidInput, "At least one participant is required")
	}
	for i := range ps {
		normalizeContact(&ps[i].ContactMedium.Attribute, m.cfg.PhoneRegion)
		if err := model.PrepareParticipant(&ps[i]); err != nil {
			return invalidInput(err)
		}
	}
	return nil
}

func (m *Manager) touch(a *model.Appointment, actor model.Actor) {
	a.UpdatedBy = displayName(actor)
	a.UpdatedAt = m.now()
}

// ---------------------------------------------------------------------------
// Create / Get
// ---------------------------------------------------------------------------

func (m *Manager) Create(ctx context.Context, actor model.Actor, req CreateRequest) (*View, error) {
	const op = "Create"

	if req.LocationType == "" {
		req.LocationType = model.LocationPhysical
	}
	if err := model.ValidateLocation(req.LocationType, req.LocationLink); err != nil {
		return nil, m.fail(op, invalidInput(err))
	}
	if err := m.prepareParticipants(req.Participants); err != nil {
		return nil, m.fail(op, err)
	}

	now := m.now()
	if err := ValidateWindow(req.StartTime, req.EndTime, now, m.cfg.MinDurationMinutes, m.cfg.MaxDurationMinutes); err != nil {
		return nil, m.fail(op, err)
	}

	w := model.Window{Start: req.StartTime, End: req.EndTime}
	if err := m.ensureNoConflict(ctx, w, req.Participants, nil); err != nil {
		return nil, m.fail(op, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, m.fail(op, err)
	}
	a := &model.Appointment{
		ID:           id,
		Description:  req.Description,
		Category:     req.Category,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       model.StatusCreated,
		CreatorID:    actor.Subject,
		CreatedBy:    displayName(actor),
		UpdatedBy:    displayName(actor),
		CreatedAt:    now,
		UpdatedAt:    now,
		LocationType: req.LocationType,
		LocationLink: req.LocationLink,
		Location:     req.Location,
		Participants: req.Participants,
		CalendarEvents: []model.CalendarEvent{{
			UID:       CalendarUID(id),
			CreatedAt: now,
			UpdatedAt: now,
		}},
	}

	err = m.repo.WithTx(ctx, func(tx store.Repository) error {
		if err := tx.InsertAppointment(ctx, a); err != nil {
			return err
		}
		return m.audit(ctx, tx, actor, model.LogActionCreate, nil, a)
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	m.publish(EventCreated, actor, a)
	v := NewView(a)
	return &v, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error) {
	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail("Get", err)
	}
	v := NewView(a)
	return &v, nil
}

// ---------------------------------------------------------------------------
// Status transitions
// ---------------------------------------------------------------------------

// update runs mutate on a loaded appointment, persists the scalar columns and
// writes one UPDATE log entry inside a single transaction.
func (m *Manager) update(ctx context.Context, actor model.Actor, a *model.Appointment, mutate func(tx store.Repository) error) error {
	before, err := Snapshot(a)
	if err != nil {
		return err
	}
	return m.repo.WithTx(ctx, func(tx store.Repository) error {
		if err := mutate(tx); err != nil {
			return err
		}
		m.touch(a, actor)
		if err := tx.UpdateAppointment(ctx, a); err != nil {
			return err
		}
		return m.audit(ctx, tx, actor, model.LogActionUpdate, before, a)
	})
}

func (m *Manager) bumpCalendar(ctx context.Context, tx store.Repository, a *model.Appointment) error {
	now := m.now()
	if err := tx.BumpCalendarSequence(ctx, a.ID, now); err != nil {
		return err
	}
	for i := range a.CalendarEvents {
		a.CalendarEvents[i].Sequence++
		a.CalendarEvents[i].UpdatedAt = now
	}
	return nil
}

func (m *Manager) Reschedule(ctx context.Context, id uuid.UUID, actor model.Actor, req RescheduleRequest) (*View, error) {
	const op = "Reschedule"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}
	if err := ValidateWindow(req.StartTime, req.EndTime, m.now(), m.cfg.MinDurationMinutes, m.cfg.MaxDurationMinutes); err != nil {
		return nil, m.fail(op, err)
	}
	w := model.Window{Start: req.StartTime, End: req.EndTime}
	if err := m.ensureNoConflict(ctx, w, a.Participants, &a.ID); err != nil {
		return nil, m.fail(op, err)
	}

	err = m.update(ctx, actor, a, func(tx store.Repository) error {
		a.StartTime = req.StartTime
		a.EndTime = req.EndTime
		a.Status = model.StatusRescheduled
		return m.bumpCalendar(ctx, tx, a)
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	m.publish(EventRescheduled, actor, a)
	v := NewView(a)
	return &v, nil
}

func (m *Manager) Cancel(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error) {
	const op = "Cancel"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if a.Status.Terminal() {
		return nil, m.fail(op, newError(KindAppointmentClosed, msgClosedUpdate))
	}

	err = m.update(ctx, actor, a, func(tx store.Repository) error {
		a.Status = model.StatusCancelled
		return m.bumpCalendar(ctx, tx, a)
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	m.publish(EventCancelled, actor, a)
	v := NewView(a)
	return &v, nil
}

func (m *Manager) Complete(ctx context.Context, id uuid.UUID, actor model.Actor) (*View, error) {
	const op = "Complete"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}

	err = m.update(ctx, actor, a, func(store.Repository) error {
		a.Status = model.StatusCompleted
		return nil
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	m.publish(EventCompleted, actor, a)
	v := NewView(a)
	return &v, nil
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

// AssignParticipants adds participants and moves the appointment to ASSIGNED.
// No conflict check runs here.
func (m *Manager) AssignParticipants(ctx context.Context, id uuid.UUID, actor model.Actor, ps []model.Participant) (*View, error) {
	const op = "AssignParticipants"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}
	if err := m.prepareParticipants(ps); err != nil {
		return nil, m.fail(op, err)
	}

	err = m.update(ctx, actor, a, func(tx store.Repository) error {
		if err := tx.InsertParticipants(ctx, a.ID, ps); err != nil {
			return err
		}
		a.Participants = append(a.Participants, ps...)
		a.Status = model.StatusAssigned
		return nil
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	m.publish(EventAssigned, actor, a)
	v := NewView(a)
	return &v, nil
}

// RemoveParticipant deletes one participant. The audit entry's new value is
// the reduced participant list.
func (m *Manager) RemoveParticipant(ctx context.Context, id, participantID uuid.UUID, actor model.Actor) (*View, error) {
	const op = "RemoveParticipant"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if len(a.Participants) < 2 {
		return nil, m.fail(op, newError(KindLastParticipant, msgLastParticipant))
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}
	if _, ok := a.Participant(participantID); !ok {
		return nil, m.fail(op, newError(KindNotFound, msgParticipantNotFound))
	}

	err = m.update(ctx, actor, a, func(tx store.Repository) error {
		deleted, err := tx.DeleteParticipant(ctx, a.ID, participantID)
		if err != nil {
			return err
		}
		if !deleted {
			return newError(KindNotFound, msgParticipantNotFound)
		}
		a.RemoveParticipant(participantID)
		return nil
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	v := NewView(a)
	return &v, nil
}

// ---------------------------------------------------------------------------
// Notes and attachments
// ---------------------------------------------------------------------------

// AddNotes stores each note on its own. The first invalid note or failed
// insert stops the loop; notes already stored stay and are audited.
func (m *Manager) AddNotes(ctx context.Context, id uuid.UUID, actor model.Actor, texts []string) (*View, error) {
	const op = "AddNotes"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}
	if len(texts) == 0 {
		return nil, m.fail(op, newError(KindInvalidInput, "At least one note is required"))
	}

	before, err := Snapshot(a)
	if err != nil {
		return nil, m.fail(op, err)
	}

	var (
		added   int
		loopErr error
	)
	for _, text := range texts {
		if err := model.ValidateNote(text); err != nil {
			loopErr = invalidInput(err)
			break
		}
		n := model.Note{
			AppointmentID: a.ID,
			Author:        displayName(actor),
			Text:          text,
			CreatedAt:     m.now(),
		}
		if err := m.repo.InsertNote(ctx, &n); err != nil {
			loopErr = err
			break
		}
		a.Notes = append(a.Notes, n)
		added++
	}

	if added > 0 {
		if err := m.audit(ctx, m.repo, actor, model.LogActionUpdate, before, a); err != nil {
			return nil, m.fail(op, err)
		}
	}
	if loopErr != nil {
		return nil, m.fail(op, loopErr)
	}

	v := NewView(a)
	return &v, nil
}

func attachmentExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// AddAttachment stores the bytes first, then the row. A failed insert removes
// the stored file again.
func (m *Manager) AddAttachment(ctx context.Context, id uuid.UUID, actor model.Actor, up AttachmentUpload) (*AttachmentView, error) {
	const op = "AddAttachment"

	a, err := m.load(ctx, id, actor)
	if err != nil {
		return nil, m.fail(op, err)
	}
	if err := CheckStatus(a.Status); err != nil {
		return nil, m.fail(op, err)
	}
	if up.Body == nil || up.Size <= 0 {
		return nil, m.fail(op, newError(KindInvalidInput, "File is required"))
	}
	if up.Size > m.cfg.MaxAttachmentBytes {
		return nil, m.fail(op, newError(KindInvalidInput,
			fmt.Sprintf("File size cannot exceed %d bytes", m.cfg.MaxAttachmentBytes)))
	}
	ext := attachmentExt(up.OriginalName)
	if ext == "" {
		return nil, m.fail(op, newError(KindInvalidInput, "File must have an extension"))
	}

	path, err := m.files.Save(ctx, io.LimitReader(up.Body, m.cfg.MaxAttachmentBytes), ext)
	if err != nil {
		return nil, m.fail(op, err)
	}

	desc := strings.TrimSpace(up.Description)
	if desc == "" {
		desc = DefaultAttachmentDescription
	}
	at := model.Attachment{
		AppointmentID:  a.ID,
		AttachmentType: ext,
		MimeType:       up.MimeType,
		OriginalName:   up.OriginalName,
		Path:           path,
		Size:           up.Size,
		Description:    desc,
		UploadedByID:   actor.Subject,
		UploadedByName: displayName(actor),
		UploadedAt:     m.now(),
	}

	err = m.update(ctx, actor, a, func(tx store.Repository) error {
		if err := tx.InsertAttachment(ctx, &at); err != nil {
			return err
		}
		a.Attachments = append(a.Attachments, at)
		return nil
	})
	if err != nil {
		if rerr := m.files.Remove(ctx, path); rerr != nil {
			m.logger.Warn("remove orphaned attachment", slog.String("op", op), slog.String("path", path), slog.Any("error", rerr))
		}
		return nil, m.fail(op, err)
	}

	v := NewAttachmentView(at)
	return &v, nil
}
