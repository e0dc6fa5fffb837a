package appointment

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type EventType string

const (
	EventCreated     EventType = "created"
	EventRescheduled EventType = "rescheduled"
	EventCancelled   EventType = "cancelled"
	EventCompleted   EventType = "completed"
	EventAssigned    EventType = "assigned"
)

type Event struct {
	Type          EventType `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	ActorID       string    `json:"actor_id"`
	ActorName     string    `json:"actor_name"`
	OccurredAt    time.Time `json:"occurred_at"`
	Appointment   View      `json:"appointment"`
}

// Subject returns the NATS subject for an event about appointment id.
func Subject(t EventType, id uuid.UUID) string {
	return constants.SubjectAppointmentPrefix + "." + string(t) + "." + id.String()
}

// publish is fire-and-forget: failures are logged and never reach the caller.
func (m *Manager) publish(t EventType, actor model.Actor, a *model.Appointment) {
	if m.pub == nil {
		return
	}
	data, err := json.Marshal(Event{
		Type:          t,
		AppointmentID: a.ID,
		ActorID:       actor.Subject,
		ActorName:     displayName(actor),
		OccurredAt:    m.now(),
		Appointment:   NewView(a),
	})
	if err != nil {
		m.logger.Error("marshal event", slog.String("op", "publish"), slog.Any("error", err))
		return
	}
	if err := m.pub.Publish(Subject(t, a.ID), data); err != nil {
		m.logger.Warn("publish event failed",
			slog.String("op", "publish"),
			slog.String("event", string(t)),
			slog.String("appointment_id", a.ID.String()),
			slog.Any("error", err))
	}
}
