package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/schema"
)

func nowUTC() time.Time { return time.Now().UTC() }

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func (s *Store) InsertNote(ctx context.Context, n *model.Note) error {
	if err := ensureID(&n.ID); err != nil {
		return err
	}
	q, args := builder().Insert(schema.NotesTableName).
		Columns("id", "appointment_id", "author", "text", "created_at").
		Values(n.ID, n.AppointmentID, n.Author, n.Text, n.CreatedAt).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *Store) loadNotes(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*model.Appointment) error {
	b := builder()
	t := b.Table(schema.NotesTableName)
	q, args := b.Select(qualify(t, []string{"id", "appointment_id", "author", "text", "created_at"})...).
		From(t).
		Where(entsql.In(t.C("appointment_id"), uuidArgs(ids)...)).
		OrderBy(t.C("created_at")).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.AppointmentID, &n.Author, &n.Text, &n.CreatedAt); err != nil {
			return fmt.Errorf("scan note: %w", err)
		}
		if a, ok := byID[n.AppointmentID]; ok {
			a.Notes = append(a.Notes, n)
		}
	}
	return rows.Err()
}

// ---------------------------------------------------------------------------
// Attachments
// ---------------------------------------------------------------------------

var attachmentColumns = []string{
	"id", "appointment_id", "attachment_type", "mime_type", "original_name", "path",
	"size", "description", "uploaded_by_id", "uploaded_by_name", "uploaded_at",
}

func (s *Store) InsertAttachment(ctx context.Context, a *model.Attachment) error {
	if err := ensureID(&a.ID); err != nil {
		return err
	}
	q, args := builder().Insert(schema.AttachmentsTableName).
		Columns(attachmentColumns...).
		Values(a.ID, a.AppointmentID, a.AttachmentType, a.MimeType, a.OriginalName, a.Path,
			a.Size, a.Description, a.UploadedByID, a.UploadedByName, a.UploadedAt).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

func (s *Store) loadAttachments(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*model.Appointment) error {
	b := builder()
	t := b.Table(schema.AttachmentsTableName)
	q, args := b.Select(qualify(t, attachmentColumns)...).
		From(t).
		Where(entsql.In(t.C("appointment_id"), uuidArgs(ids)...)).
		OrderBy(t.C("uploaded_at")).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return fmt.Errorf("select attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at model.Attachment
		if err := rows.Scan(&at.ID, &at.AppointmentID, &at.AttachmentType, &at.MimeType, &at.OriginalName, &at.Path,
			&at.Size, &at.Description, &at.UploadedByID, &at.UploadedByName, &at.UploadedAt); err != nil {
			return fmt.Errorf("scan attachment: %w", err)
		}
		if a, ok := byID[at.AppointmentID]; ok {
			a.Attachments = append(a.Attachments, at)
		}
	}
	return rows.Err()
}

// ---------------------------------------------------------------------------
// Calendar events
// ---------------------------------------------------------------------------

func (s *Store) InsertCalendarEvent(ctx context.Context, e *model.CalendarEvent) error {
	if err := ensureID(&e.ID); err != nil {
		return err
	}
	q, args := builder().Insert(schema.CalendarEventsTableName).
		Columns("id", "appointment_id", "uid", "sequence", "created_at", "updated_at").
		Values(e.ID, e.AppointmentID, e.UID, e.Sequence, e.CreatedAt, e.UpdatedAt).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

// BumpCalendarSequence increments SEQUENCE on every calendar entry of the
// appointment so re-sent invitations replace the previous version.
func (s *Store) BumpCalendarSequence(ctx context.Context, appointmentID uuid.UUID, at time.Time) error {
	q, args := builder().Update(schema.CalendarEventsTableName).
		Add("sequence", 1).
		Set("updated_at", at).
		Where(entsql.EQ("appointment_id", appointmentID)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("bump calendar sequence: %w", err)
	}
	return nil
}

func (s *Store) loadCalendarEvents(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*model.Appointment) error {
	b := builder()
	t := b.Table(schema.CalendarEventsTableName)
	q, args := b.Select(qualify(t, []string{"id", "appointment_id", "uid", "sequence", "created_at", "updated_at"})...).
		From(t).
		Where(entsql.In(t.C("appointment_id"), uuidArgs(ids)...)).
		OrderBy(t.C("created_at")).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return fmt.Errorf("select calendar events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.CalendarEvent
		if err := rows.Scan(&e.ID, &e.AppointmentID, &e.UID, &e.Sequence, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return fmt.Errorf("scan calendar event: %w", err)
		}
		if a, ok := byID[e.AppointmentID]; ok {
			a.CalendarEvents = append(a.CalendarEvents, e)
		}
	}
	return rows.Err()
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

func (s *Store) InsertLogEntry(ctx context.Context, e *model.LogEntry) error {
	if err := ensureID(&e.ID); err != nil {
		return err
	}
	q, args := builder().Insert(schema.LogEntriesTableName).
		Columns("id", "entity_id", "entity_type", "action", "old_value", "new_value",
			"created_by_id", "created_by_name", "created_at").
		Values(e.ID, e.EntityID, e.EntityType, string(e.Action), jsonArg(e.OldValue), jsonArg(e.NewValue),
			e.CreatedByID, e.CreatedByName, e.CreatedAt).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// jsonArg hands JSON to lib/pq as text so it lands in jsonb unchanged.
func jsonArg(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
