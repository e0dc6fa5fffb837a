package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/internal/service/notification"
)

type fakeNotifier struct {
	notification.Service
	got []appointment.Event
	err error
}

func (f *fakeNotifier) NotifyParticipants(_ context.Context, ev appointment.Event) error {
	f.got = append(f.got, ev)
	return f.err
}

func TestHandleAppointmentEvent(t *testing.T) {
	id := uuid.New()
	data, err := json.Marshal(appointment.Event{
		Type:          appointment.EventCancelled,
		AppointmentID: id,
		Appointment:   appointment.View{ID: id, Description: "Boiler check"},
	})
	require.NoError(t, err)

	n := &fakeNotifier{}
	require.NoError(t, handleAppointmentEvent(context.Background(), n, data))
	require.Len(t, n.got, 1)
	assert.Equal(t, appointment.EventCancelled, n.got[0].Type)
	assert.Equal(t, "Boiler check", n.got[0].Appointment.Description)
}

func TestHandleAppointmentEventErrors(t *testing.T) {
	n := &fakeNotifier{}
	assert.Error(t, handleAppointmentEvent(context.Background(), n, []byte("{")))
	assert.Empty(t, n.got)

	boom := errors.New("smtp down")
	n = &fakeNotifier{err: boom}
	err := handleAppointmentEvent(context.Background(), n, []byte(`{"type":"created"}`))
	assert.ErrorIs(t, err, boom)
}
