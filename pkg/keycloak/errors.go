package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Kind string

const (
	KindTimeout      Kind = "upstream_timeout"
	KindUnauthorized Kind = "upstream_unauthorized"
	KindUpstream     Kind = "upstream_error"
)

// Error is returned for failed calls to the identity provider.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

var (
	ErrTimeout      = &Error{Kind: KindTimeout, Status: http.StatusGatewayTimeout}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized}
	ErrUpstream     = &Error{Kind: KindUpstream, Status: http.StatusBadGateway}
)

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("keycloak: %s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return "keycloak: " + e.Message
	}
	return "keycloak: " + string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) HTTPStatus() int { return e.Status }

func (e *Error) PublicMessage() string { return e.Message }

func (e *Error) ErrorKind() string { return string(e.Kind) }

// ErrInvalidToken wraps any bearer token verification failure.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }

func timeoutError(err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Status:  http.StatusGatewayTimeout,
		Message: "Connection timed out: " + err.Error(),
		Err:     err,
	}
}

func unauthorizedError(description string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: description}
}

func upstreamError(err error) *Error {
	return &Error{Kind: KindUpstream, Status: http.StatusBadGateway, Message: "Identity provider error", Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
