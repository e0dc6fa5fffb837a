package appointment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/store"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

// Snapshot serialises the externally visible state of a.
func Snapshot(a *model.Appointment) ([]byte, error) {
	b, err := json.Marshal(NewView(a))
	if err != nil {
		return nil, fmt.Errorf("snapshot appointment: %w", err)
	}
	return b, nil
}

// audit writes one log entry for a. before is nil for CREATE.
func (m *Manager) audit(ctx context.Context, repo store.Repository, actor model.Actor, action model.LogAction, before []byte, a *model.Appointment) error {
	after, err := Snapshot(a)
	if err != nil {
		return err
	}
	return repo.InsertLogEntry(ctx, &model.LogEntry{
		EntityID:      a.ID,
		EntityType:    constants.EntityAppointment,
		Action:        action,
		OldValue:      before,
		NewValue:      after,
		CreatedByID:   actor.Subject,
		CreatedByName: displayName(actor),
		CreatedAt:     m.now(),
	})
}
