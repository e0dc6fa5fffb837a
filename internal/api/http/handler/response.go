package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// envelope is the body of every JSON response.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// statusError is implemented by every typed service error.
type statusError interface {
	error
	HTTPStatus() int
	PublicMessage() string
}

// requestError is a malformed request caught before reaching a service.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string         { return e.msg }
func (e *requestError) HTTPStatus() int       { return e.status }
func (e *requestError) PublicMessage() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{status: fiber.StatusBadRequest, msg: msg}
}

func unprocessable(msg string) error {
	return &requestError{status: fiber.StatusUnprocessableEntity, msg: msg}
}

func reply(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Status: status, Message: http.StatusText(status), Data: data})
}

func ok(c fiber.Ctx, data any) error {
	return reply(c, fiber.StatusOK, data)
}

func created(c fiber.Ctx, data any) error {
	return reply(c, fiber.StatusCreated, data)
}

func okList(c fiber.Ctx, data any, count int) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Status:  fiber.StatusOK,
		Message: http.StatusText(fiber.StatusOK),
		Data:    data,
		Count:   &count,
	})
}

// fail writes err as an envelope. Errors without a public status become a
// generic 500 and are logged, since their text may leak internals.
func fail(c fiber.Ctx, err error) error {
	var se statusError
	if errors.As(err, &se) {
		return c.Status(se.HTTPStatus()).JSON(envelope{Status: se.HTTPStatus(), Message: se.PublicMessage()})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(envelope{Status: fe.Code, Message: fe.Message})
	}
	slog.ErrorContext(c.Context(), "unhandled error",
		slog.String("path", c.Path()),
		slog.String("method", c.Method()),
		slog.Any("error", err))
	return c.Status(fiber.StatusInternalServerError).JSON(envelope{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}

// ErrorHandler renders errors that escape handlers and middleware.
func ErrorHandler(c fiber.Ctx, err error) error {
	return fail(c, err)
}
