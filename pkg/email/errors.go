package email

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned by Send when email.enabled is false.
var ErrDisabled = errors.New("email: sending is disabled")

// InvalidMessageError reports a message rejected before any SMTP traffic.
type InvalidMessageError struct{ Reason string }

func (e *InvalidMessageError) Error() string { return "email: invalid message: " + e.Reason }

// SendError wraps a transport failure from the SMTP dialer.
type SendError struct {
	Host string
	Err  error
}

func (e *SendError) Error() string { return fmt.Sprintf("email: send via %s: %v", e.Host, e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

func invalid(reason string) error { return &InvalidMessageError{Reason: reason} }
