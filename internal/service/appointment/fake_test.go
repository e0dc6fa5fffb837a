package appointment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/store"
)

// memRepo is an in-memory store.Repository. WithTx restores the previous
// state when fn fails.
type memRepo struct {
	mu     sync.Mutex
	appts  map[uuid.UUID]*model.Appointment
	logs   []model.LogEntry
	writes int

	conflictErr error
	insertErr   error
	noteErrAt   int
	notesSeen   int
}

var _ store.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{appts: map[uuid.UUID]*model.Appointment{}, noteErrAt: -1}
}

func cloneAppointment(a *model.Appointment) *model.Appointment {
	c := *a
	if a.Location != nil {
		l := *a.Location
		c.Location = &l
	}
	c.Participants = append([]model.Participant(nil), a.Participants...)
	c.Attachments = append([]model.Attachment(nil), a.Attachments...)
	c.Notes = append([]model.Note(nil), a.Notes...)
	c.CalendarEvents = append([]model.CalendarEvent(nil), a.CalendarEvents...)
	return &c
}

func (r *memRepo) WithTx(ctx context.Context, fn func(store.Repository) error) error {
	r.mu.Lock()
	saved := make(map[uuid.UUID]*model.Appointment, len(r.appts))
	for k, v := range r.appts {
		saved[k] = cloneAppointment(v)
	}
	savedLogs := append([]model.LogEntry(nil), r.logs...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.appts = saved
		r.logs = savedLogs
		r.mu.Unlock()
		return err
	}
	return nil
}

func ensure(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.Must(uuid.NewV7())
	}
}

func (r *memRepo) InsertAppointment(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.writes++
	ensure(&a.ID)
	for i := range a.Participants {
		ensure(&a.Participants[i].ID)
		a.Participants[i].AppointmentID = a.ID
	}
	for i := range a.CalendarEvents {
		ensure(&a.CalendarEvents[i].ID)
		a.CalendarEvents[i].AppointmentID = a.ID
	}
	r.appts[a.ID] = cloneAppointment(a)
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, nil
	}
	return cloneAppointment(a), nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cur, ok := r.appts[a.ID]
	if !ok {
		return errors.New("no such appointment")
	}
	cur.Description = a.Description
	cur.Category = a.Category
	cur.StartTime = a.StartTime
	cur.EndTime = a.EndTime
	cur.Status = a.Status
	cur.UpdatedBy = a.UpdatedBy
	cur.UpdatedAt = a.UpdatedAt
	return nil
}

func (r *memRepo) InsertParticipants(_ context.Context, appointmentID uuid.UUID, ps []model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cur := r.appts[appointmentID]
	for i := range ps {
		ensure(&ps[i].ID)
		ps[i].AppointmentID = appointmentID
		cur.Participants = append(cur.Participants, ps[i])
	}
	return nil
}

func (r *memRepo) DeleteParticipant(_ context.Context, appointmentID, participantID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cur := r.appts[appointmentID]
	if _, ok := cur.Participant(participantID); !ok {
		return false, nil
	}
	cur.RemoveParticipant(participantID)
	return true, nil
}

func (r *memRepo) InsertNote(_ context.Context, n *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notesSeen == r.noteErrAt {
		return errors.New("disk full")
	}
	r.notesSeen++
	r.writes++
	ensure(&n.ID)
	cur := r.appts[n.AppointmentID]
	cur.Notes = append(cur.Notes, *n)
	return nil
}

func (r *memRepo) InsertAttachment(_ context.Context, a *model.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.writes++
	ensure(&a.ID)
	cur := r.appts[a.AppointmentID]
	cur.Attachments = append(cur.Attachments, *a)
	return nil
}

func (r *memRepo) InsertCalendarEvent(_ context.Context, e *model.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	ensure(&e.ID)
	cur := r.appts[e.AppointmentID]
	cur.CalendarEvents = append(cur.CalendarEvents, *e)
	return nil
}

func (r *memRepo) BumpCalendarSequence(_ context.Context, appointmentID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cur := r.appts[appointmentID]
	for i := range cur.CalendarEvents {
		cur.CalendarEvents[i].Sequence++
		cur.CalendarEvents[i].UpdatedAt = at
	}
	return nil
}

func (r *memRepo) InsertLogEntry(_ context.Context, e *model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	ensure(&e.ID)
	r.logs = append(r.logs, *e)
	return nil
}

func (r *memRepo) FindConflicting(_ context.Context, q store.ConflictQuery) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictErr != nil {
		return false, r.conflictErr
	}
	phones := map[string]bool{}
	for _, p := range q.Phones {
		phones[p] = true
	}
	emails := map[string]bool{}
	for _, e := range q.Emails {
		emails[e] = true
	}
	cand := model.Window{Start: q.Start, End: q.End}
	for id, a := range r.appts {
		if a.Status == model.StatusCancelled || (q.ExcludeID != nil && *q.ExcludeID == id) {
			continue
		}
		if !a.Window().Overlaps(cand) {
			continue
		}
		for _, p := range a.Participants {
			at := p.ContactMedium.Attribute
			if (at.PhoneNumber != "" && phones[at.PhoneNumber]) || (at.Email != "" && emails[at.Email]) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *memRepo) filter(q store.ListQuery) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range r.appts {
		if a.StartTime.Before(q.From) || a.StartTime.After(q.To) {
			continue
		}
		if q.Status != "" && string(a.Status) != q.Status {
			continue
		}
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if q.LocationType != "" && string(a.LocationType) != q.LocationType {
			continue
		}
		if q.CreatorID != "" && a.CreatorID != q.CreatorID {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *memRepo) ListAppointments(_ context.Context, q store.ListQuery) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filter(q)
	if q.Offset >= len(out) {
		return nil, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memRepo) CountAppointments(_ context.Context, q store.ListQuery) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(q)), nil
}

func (r *memRepo) logsFor(id uuid.UUID) []model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LogEntry
	for _, e := range r.logs {
		if e.EntityID == id {
			out = append(out, e)
		}
	}
	return out
}

type memFiles struct {
	saved   map[string][]byte
	removed []string
	n       int
}

func newMemFiles() *memFiles { return &memFiles{saved: map[string][]byte{}} }

func (f *memFiles) Save(_ context.Context, r io.Reader, ext string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	f.n++
	path := "mem/" + uuid.NewString() + "." + ext
	f.saved[path] = buf.Bytes()
	return path, nil
}

func (f *memFiles) Remove(_ context.Context, path string) error {
	delete(f.saved, path)
	f.removed = append(f.removed, path)
	return nil
}

type memPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (p *memPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}
