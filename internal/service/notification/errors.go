package notification

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
	ErrNoRecipients  = &Error{Status: http.StatusUnprocessableEntity, Message: "At least one recipient is required"}
	ErrMissingUserID = &Error{Status: http.StatusUnprocessableEntity, Message: "User id is required"}
	ErrMissingToken  = &Error{Status: http.StatusUnauthorized, Message: "Missing bearer token"}
)
