package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/service/notification"
)

type UserHandler struct {
	notify notification.Service
}

func NewUserHandler(notify notification.Service) *UserHandler {
	return &UserHandler{notify: notify}
}

// PUT /api/v1/users/:id/password-setup
//
// Keycloak authorizes the call with the caller's own token.
func (h *UserHandler) SendPasswordSetupEmail(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.notify.SendPasswordSetupEmail(c.Context(), actor.Token, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}
