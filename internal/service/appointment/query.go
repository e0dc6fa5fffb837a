package appointment

import (
	"context"
	"time"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/store"
)

// ListFilter narrows a listing. From and To are calendar days in the
// configured time zone. Only their date fields are read, in whatever
// location the value carries, so 2030-06-10 means June 10 everywhere.
type ListFilter struct {
	From         *time.Time
	To           *time.Time
	Status       string
	Category     string
	LocationType string
	CreatorID    string
	Desc         bool
	Limit        int
	Offset       int
}

type ListResult struct {
	Data  []View `json:"data"`
	Count int    `json:"count"`
}

// calendarDay reinterprets the date fields of t in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Millisecond)
}

// buildListQuery resolves defaults and visibility rules into a store query.
func (m *Manager) buildListQuery(actor model.Actor, f ListFilter) (store.ListQuery, error) {
	if f.To != nil && f.From == nil {
		return store.ListQuery{}, newError(KindBadFilter, msgBadFilter)
	}
	if f.Status != "" && !model.Status(f.Status).Valid() {
		return store.ListQuery{}, newError(KindBadFilter, "Unknown appointment status "+f.Status)
	}
	if f.LocationType != "" && !model.LocationType(f.LocationType).Valid() {
		return store.ListQuery{}, newError(KindBadFilter, "locationType must be PHYSICAL or ONLINE")
	}

	today := m.now().In(m.cfg.Location)
	q := store.ListQuery{
		From:         startOfDay(today),
		To:           endOfDay(today),
		Status:       f.Status,
		Category:     f.Category,
		LocationType: f.LocationType,
		CreatorID:    f.CreatorID,
		Desc:         f.Desc,
		Limit:        f.Limit,
		Offset:       f.Offset,
	}
	if f.From != nil {
		q.From = calendarDay(*f.From, m.cfg.Location)
	}
	if f.To != nil {
		q.To = endOfDay(calendarDay(*f.To, m.cfg.Location))
	}
	if actor.IsUserRole() {
		q.CreatorID = actor.Subject
	}

	if q.Limit <= 0 {
		q.Limit = m.cfg.DefaultListLimit
	}
	if m.cfg.MaxListLimit > 0 && q.Limit > m.cfg.MaxListLimit {
		q.Limit = m.cfg.MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q, nil
}

// List returns one page of fully populated appointments and the total number
// of matches ignoring limit and offset.
func (m *Manager) List(ctx context.Context, actor model.Actor, f ListFilter) (*ListResult, error) {
	const op = "List"

	q, err := m.buildListQuery(actor, f)
	if err != nil {
		return nil, m.fail(op, err)
	}

	count, err := m.repo.CountAppointments(ctx, q)
	if err != nil {
		return nil, m.fail(op, err)
	}
	items, err := m.repo.ListAppointments(ctx, q)
	if err != nil {
		return nil, m.fail(op, err)
	}

	res := &ListResult{Data: make([]View, 0, len(items)), Count: count}
	for _, a := range items {
		res.Data = append(res.Data, NewView(a))
	}
	return res, nil
}
