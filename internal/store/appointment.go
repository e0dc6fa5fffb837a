package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/schema"
)

var appointmentColumns = []string{
	"id", "description", "category", "start_time", "end_time", "status",
	"creator_id", "created_by", "updated_by", "location_type", "location_link",
	"created_at", "updated_at",
}

// InsertAppointment writes the appointment with its location, participants
// and calendar events. Missing ids are generated.
func (s *Store) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	if err := ensureID(&a.ID); err != nil {
		return err
	}

	q, args := builder().Insert(schema.AppointmentsTableName).
		Columns(appointmentColumns...).
		Values(a.ID, a.Description, a.Category, a.StartTime, a.EndTime, string(a.Status),
			a.CreatorID, a.CreatedBy, a.UpdatedBy, string(a.LocationType), a.LocationLink,
			a.CreatedAt, a.UpdatedAt).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	if a.Location != nil {
		if err := s.insertLocation(ctx, a.ID, a.Location); err != nil {
			return err
		}
	}
	if err := s.InsertParticipants(ctx, a.ID, a.Participants); err != nil {
		return err
	}
	for i := range a.CalendarEvents {
		a.CalendarEvents[i].AppointmentID = a.ID
		if err := s.InsertCalendarEvent(ctx, &a.CalendarEvents[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertLocation(ctx context.Context, appointmentID uuid.UUID, l *model.Location) error {
	if err := ensureID(&l.ID); err != nil {
		return err
	}
	l.AppointmentID = appointmentID

	q, args := builder().Insert(schema.LocationsTableName).
		Columns("id", "appointment_id", "name", "street_nr", "street_name", "post_code", "city", "state_or_province", "country").
		Values(l.ID, l.AppointmentID, l.Name, l.StreetNr, l.StreetName, l.PostCode, l.City, l.StateOrProvince, l.Country).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// UpdateAppointment persists the mutable scalar columns.
func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	q, args := builder().Update(schema.AppointmentsTableName).
		Set("description", a.Description).
		Set("category", a.Category).
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Set("status", string(a.Status)).
		Set("updated_by", a.UpdatedBy).
		Set("updated_at", a.UpdatedAt).
		Where(entsql.EQ("id", a.ID)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	b := builder()
	t := b.Table(schema.AppointmentsTableName)
	q, args := b.Select(qualify(t, appointmentColumns)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	list, err := s.selectAppointments(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if err := s.loadGraph(ctx, list); err != nil {
		return nil, err
	}
	return list[0], nil
}

func qualify(t *entsql.SelectTable, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = t.C(c)
	}
	return out
}

func (s *Store) selectAppointments(ctx context.Context, q string, args []any) ([]*model.Appointment, error) {
	rows, err := s.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("select appointments: %w", err)
	}
	defer rows.Close()

	var out []*model.Appointment
	for rows.Next() {
		var (
			a            model.Appointment
			desc, link   sql.NullString
			status, ltyp string
		)
		if err := rows.Scan(&a.ID, &desc, &a.Category, &a.StartTime, &a.EndTime, &status,
			&a.CreatorID, &a.CreatedBy, &a.UpdatedBy, &ltyp, &link,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Description = desc.String
		a.LocationLink = link.String
		a.Status = model.Status(status)
		a.LocationType = model.LocationType(ltyp)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// loadGraph fills the edges of every appointment in list with one query per
// edge type.
func (s *Store) loadGraph(ctx context.Context, list []*model.Appointment) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*model.Appointment, len(list))
	ids := make([]uuid.UUID, 0, len(list))
	for _, a := range list {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	loaders := []func(context.Context, []uuid.UUID, map[uuid.UUID]*model.Appointment) error{
		s.loadLocations,
		s.loadParticipants,
		s.loadAttachments,
		s.loadNotes,
		s.loadCalendarEvents,
	}
	for _, load := range loaders {
		if err := load(ctx, ids, byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadLocations(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*model.Appointment) error {
	b := builder()
	t := b.Table(schema.LocationsTableName)
	q, args := b.Select(qualify(t, []string{"id", "appointment_id", "name", "street_nr", "street_name", "post_code", "city", "state_or_province", "country"})...).
		From(t).
		Where(entsql.In(t.C("appointment_id"), uuidArgs(ids)...)).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return fmt.Errorf("select locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.AppointmentID, &l.Name, &l.StreetNr, &l.StreetName, &l.PostCode, &l.City, &l.StateOrProvince, &l.Country); err != nil {
			return fmt.Errorf("scan location: %w", err)
		}
		if a, ok := byID[l.AppointmentID]; ok {
			loc := l
			a.Location = &loc
		}
	}
	return rows.Err()
}
