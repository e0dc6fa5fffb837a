// Package store persists the appointment graph with ent's SQL builder.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
)

// Repository is the persistence contract of the appointment service.
// GetAppointment returns (nil, nil) when no row matches.
type Repository interface {
	WithTx(ctx context.Context, fn func(Repository) error) error

	InsertAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error

	InsertParticipants(ctx context.Context, appointmentID uuid.UUID, ps []model.Participant) error
	DeleteParticipant(ctx context.Context, appointmentID, participantID uuid.UUID) (bool, error)

	InsertNote(ctx context.Context, n *model.Note) error
	InsertAttachment(ctx context.Context, a *model.Attachment) error
	InsertCalendarEvent(ctx context.Context, e *model.CalendarEvent) error
	BumpCalendarSequence(ctx context.Context, appointmentID uuid.UUID, at time.Time) error
	InsertLogEntry(ctx context.Context, e *model.LogEntry) error

	FindConflicting(ctx context.Context, q ConflictQuery) (bool, error)
	ListAppointments(ctx context.Context, q ListQuery) ([]*model.Appointment, error)
	CountAppointments(ctx context.Context, q ListQuery) (int, error)
}

type Store struct {
	drv  *entsql.Driver
	eq   dialect.ExecQuerier
	tx   bool
	slow time.Duration
}

var _ Repository = (*Store)(nil)

type Option func(*Store)

// WithSlowQueryLog logs statements that take at least threshold at warn level.
func WithSlowQueryLog(threshold time.Duration) Option {
	return func(s *Store) { s.slow = threshold }
}

func New(drv *entsql.Driver, opts ...Option) *Store {
	s := &Store{drv: drv, eq: drv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}

// WithTx runs fn inside one transaction. Nested calls reuse the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(Repository) error) (err error) {
	if s.tx {
		return fn(s)
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: rollback: %v", err, rerr)
			}
		}
	}()

	if err = fn(&Store{drv: s.drv, eq: tx, tx: true, slow: s.slow}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args []any) error {
	defer s.observe(ctx, query, time.Now())
	return s.eq.Exec(ctx, query, args, nil)
}

func (s *Store) query(ctx context.Context, query string, args []any) (*entsql.Rows, error) {
	defer s.observe(ctx, query, time.Now())
	rows := &entsql.Rows{}
	if err := s.eq.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) observe(ctx context.Context, query string, start time.Time) {
	if s.slow <= 0 {
		return
	}
	if d := time.Since(start); d >= s.slow {
		slog.WarnContext(ctx, "slow query", "duration_ms", d.Milliseconds(), "query", query)
	}
}

func ensureID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	v, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func uuidArgs(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
