package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/schema"
)

// ListQuery selects appointments whose start falls in [From, To]. Empty
// string filters are ignored.
type ListQuery struct {
	From         time.Time
	To           time.Time
	Status       string
	Category     string
	LocationType string
	CreatorID    string
	Desc         bool
	Limit        int
	Offset       int
}

func (q ListQuery) predicate(t *entsql.SelectTable) *entsql.Predicate {
	preds := []*entsql.Predicate{
		entsql.GTE(t.C("start_time"), q.From),
		entsql.LTE(t.C("start_time"), q.To),
	}
	if q.Status != "" {
		preds = append(preds, entsql.EQ(t.C("status"), q.Status))
	}
	if q.Category != "" {
		preds = append(preds, entsql.EQ(t.C("category"), q.Category))
	}
	if q.LocationType != "" {
		preds = append(preds, entsql.EQ(t.C("location_type"), q.LocationType))
	}
	if q.CreatorID != "" {
		preds = append(preds, entsql.EQ(t.C("creator_id"), q.CreatorID))
	}
	return entsql.And(preds...)
}

func listSQL(q ListQuery) (string, []any) {
	b := builder()
	t := b.Table(schema.AppointmentsTableName)

	order := entsql.Asc(t.C("created_at"))
	if q.Desc {
		order = entsql.Desc(t.C("created_at"))
	}

	sel := b.Select(qualify(t, appointmentColumns)...).
		From(t).
		Where(q.predicate(t)).
		OrderBy(order, t.C("id"))
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}
	if q.Offset > 0 {
		sel.Offset(q.Offset)
	}
	return sel.Query()
}

func countSQL(q ListQuery) (string, []any) {
	b := builder()
	t := b.Table(schema.AppointmentsTableName)
	return b.Select(entsql.Count(t.C("id"))).
		From(t).
		Where(q.predicate(t)).
		Query()
}

// ListAppointments returns one page with every edge loaded.
func (s *Store) ListAppointments(ctx context.Context, q ListQuery) ([]*model.Appointment, error) {
	query, args := listSQL(q)
	list, err := s.selectAppointments(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if err := s.loadGraph(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CountAppointments applies the same filters as ListAppointments without paging.
func (s *Store) CountAppointments(ctx context.Context, q ListQuery) (int, error) {
	query, args := countSQL(q)
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("count appointments: %w", err)
		}
	}
	return n, rows.Err()
}
