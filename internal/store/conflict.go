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

// ConflictQuery looks for a live appointment that shares a phone number or
// email with the candidate and overlaps its window. Identities must already
// be normalised.
type ConflictQuery struct {
	Start     time.Time
	End       time.Time
	Phones    []string
	Emails    []string
	ExcludeID *uuid.UUID
}

func (q ConflictQuery) empty() bool {
	return len(q.Phones) == 0 && len(q.Emails) == 0
}

func conflictSQL(q ConflictQuery) (string, []any) {
	b := builder()
	ap := b.Table(schema.AppointmentsTableName)
	p := b.Table(schema.ParticipantsTableName)
	cm := b.Table(schema.ContactMediumsTableName)
	at := b.Table(schema.ContactMediumAttributesTableName)

	var identity []*entsql.Predicate
	if len(q.Phones) > 0 {
		identity = append(identity, entsql.In(at.C("phone_number"), stringArgs(q.Phones)...))
	}
	if len(q.Emails) > 0 {
		identity = append(identity, entsql.In(at.C("email"), stringArgs(q.Emails)...))
	}

	preds := []*entsql.Predicate{
		entsql.Or(identity...),
		entsql.LTE(ap.C("start_time"), q.End),
		entsql.GTE(ap.C("end_time"), q.Start),
		entsql.NEQ(ap.C("status"), string(model.StatusCancelled)),
	}
	if q.ExcludeID != nil {
		preds = append(preds, entsql.NEQ(ap.C("id"), *q.ExcludeID))
	}

	return b.Select(ap.C("id")).
		From(ap).
		Join(p).On(ap.C("id"), p.C("appointment_id")).
		Join(cm).On(p.C("id"), cm.C("participant_id")).
		Join(at).On(cm.C("id"), at.C("contact_medium_id")).
		Where(entsql.And(preds...)).
		Limit(1).
		Query()
}

func (s *Store) FindConflicting(ctx context.Context, q ConflictQuery) (bool, error) {
	if q.empty() {
		return false, nil
	}

	query, args := conflictSQL(q)
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return false, fmt.Errorf("find conflicting: %w", err)
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("find conflicting: %w", err)
	}
	return found, nil
}

func stringArgs(vs []string) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
