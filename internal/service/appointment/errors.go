package appointment

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidWindow       Kind = "invalid_window"
	KindTooShort            Kind = "too_short"
	KindTooLong             Kind = "too_long"
	KindConflictDetected    Kind = "conflict_detected"
	KindConflictCheckFailed Kind = "conflict_check_failed"
	KindAppointmentClosed   Kind = "appointment_closed"
	KindNotFound            Kind = "not_found"
	KindLastParticipant     Kind = "last_participant"
	KindBadFilter           Kind = "bad_filter"
	KindInvalidInput        Kind = "invalid_input"
	KindPersistence         Kind = "persistence"
)

var kindStatus = map[Kind]int{
	KindInvalidWindow:       http.StatusBadRequest,
	KindTooShort:            http.StatusBadRequest,
	KindTooLong:             http.StatusBadRequest,
	KindConflictDetected:    http.StatusBadRequest,
	KindConflictCheckFailed: http.StatusInternalServerError,
	KindAppointmentClosed:   http.StatusBadRequest,
	KindNotFound:            http.StatusNotFound,
	KindLastParticipant:     http.StatusBadRequest,
	KindBadFilter:           http.StatusUnprocessableEntity,
	KindInvalidInput:        http.StatusUnprocessableEntity,
	KindPersistence:         http.StatusInternalServerError,
}

// Error is a classified failure. Message is safe to show to callers; Err
// holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds whatever the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func (e *Error) PublicMessage() string { return e.Message }

// ErrorKind labels metrics.
func (e *Error) ErrorKind() string { return string(e.Kind) }

var (
	ErrInvalidWindow       = &Error{Kind: KindInvalidWindow}
	ErrTooShort            = &Error{Kind: KindTooShort}
	ErrTooLong             = &Error{Kind: KindTooLong}
	ErrConflictDetected    = &Error{Kind: KindConflictDetected}
	ErrConflictCheckFailed = &Error{Kind: KindConflictCheckFailed}
	ErrAppointmentClosed   = &Error{Kind: KindAppointmentClosed}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrLastParticipant     = &Error{Kind: KindLastParticipant}
	ErrBadFilter           = &Error{Kind: KindBadFilter}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrPersistence         = &Error{Kind: KindPersistence}
)

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Status: kindStatus[kind], Message: msg}
}

const (
	msgNotFound            = "appointment not found"
	msgParticipantNotFound = "participant not found"
	msgConflict            = "Appointment conflict detected."
	msgConflictCheck       = "Unable to check appointment conflict."
	msgClosed              = "Appointment has been cancelled or completed"
	msgClosedUpdate        = "Cannot update a cancelled or completed appointment."
	msgLastParticipant     = "Cannot remove participant. An appointment must have at least one participant"
	msgBadFilter           = "Please provide a startDateTimeFrom when specifying startDateTimeTo."
	msgPersistence         = "DB or Query Error"
)

// asError keeps typed errors and wraps everything else as a persistence failure.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Message: msgPersistence, Err: err}
}
