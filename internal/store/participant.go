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

// InsertParticipants writes each participant with its contact medium and
// attribute rows.
func (s *Store) InsertParticipants(ctx context.Context, appointmentID uuid.UUID, ps []model.Participant) error {
	for i := range ps {
		if err := s.insertParticipant(ctx, appointmentID, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertParticipant(ctx context.Context, appointmentID uuid.UUID, p *model.Participant) error {
	cm := &p.ContactMedium
	attr := &cm.Attribute
	for _, id := range []*uuid.UUID{&p.ID, &cm.ID, &attr.ID} {
		if err := ensureID(id); err != nil {
			return err
		}
	}
	p.AppointmentID = appointmentID

	b := builder()
	q, args := b.Insert(schema.ParticipantsTableName).
		Columns("id", "appointment_id", "name", "role", "created_at").
		Values(p.ID, appointmentID, p.Name, p.Role, nowUTC()).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	q, args = b.Insert(schema.ContactMediumsTableName).
		Columns("id", "participant_id", "medium_type").
		Values(cm.ID, p.ID, string(cm.MediumType)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert contact medium: %w", err)
	}

	q, args = b.Insert(schema.ContactMediumAttributesTableName).
		Columns("id", "contact_medium_id", "phone_number", "email", "fax_number", "social_network_id",
			"street", "city", "state_or_province", "country").
		Values(attr.ID, cm.ID, attr.PhoneNumber, attr.Email, attr.FaxNumber, attr.SocialNetworkID,
			attr.Street, attr.City, attr.StateOrProvince, attr.Country).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("insert contact medium attribute: %w", err)
	}
	return nil
}

// DeleteParticipant removes the participant if it belongs to the appointment.
// Contact rows go with it through the cascade.
func (s *Store) DeleteParticipant(ctx context.Context, appointmentID, participantID uuid.UUID) (bool, error) {
	q, args := builder().Delete(schema.ParticipantsTableName).
		Where(entsql.And(
			entsql.EQ("id", participantID),
			entsql.EQ("appointment_id", appointmentID),
		)).
		Query()

	var res sql.Result
	if err := s.eq.Exec(ctx, q, args, &res); err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	return n > 0, nil
}

func (s *Store) loadParticipants(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*model.Appointment) error {
	b := builder()
	p := b.Table(schema.ParticipantsTableName)
	cm := b.Table(schema.ContactMediumsTableName)
	at := b.Table(schema.ContactMediumAttributesTableName)

	q, args := b.Select(
		p.C("id"), p.C("appointment_id"), p.C("name"), p.C("role"),
		cm.C("id"), cm.C("medium_type"),
		at.C("id"), at.C("phone_number"), at.C("email"), at.C("fax_number"), at.C("social_network_id"),
		at.C("street"), at.C("city"), at.C("state_or_province"), at.C("country"),
	).
		From(p).
		Join(cm).On(p.C("id"), cm.C("participant_id")).
		Join(at).On(cm.C("id"), at.C("contact_medium_id")).
		Where(entsql.In(p.C("appointment_id"), uuidArgs(ids)...)).
		OrderBy(p.C("created_at"), p.C("id")).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return fmt.Errorf("select participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pt model.Participant
			mt string
		)
		a := &pt.ContactMedium.Attribute
		if err := rows.Scan(&pt.ID, &pt.AppointmentID, &pt.Name, &pt.Role,
			&pt.ContactMedium.ID, &mt,
			&a.ID, &a.PhoneNumber, &a.Email, &a.FaxNumber, &a.SocialNetworkID,
			&a.Street, &a.City, &a.StateOrProvince, &a.Country); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		pt.ContactMedium.MediumType = model.MediumType(mt)
		if appt, ok := byID[pt.AppointmentID]; ok {
			appt.Participants = append(appt.Participants, pt)
		}
	}
	return rows.Err()
}
