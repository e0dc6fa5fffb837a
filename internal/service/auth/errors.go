package auth

import "net/http"

// Error is a request-level failure with a client-facing message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string         { return e.Message }
func (e *Error) HTTPStatus() int       { return e.Status }
func (e *Error) PublicMessage() string { return e.Message }

var (
	ErrMissingCredentials = &Error{Status: http.StatusUnprocessableEntity, Message: "Username and password are required"}
	ErrAccountLocked      = &Error{Status: http.StatusTooManyRequests, Message: "Too many failed login attempts, try again later"}
)
