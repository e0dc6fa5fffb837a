package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/api/http/handler"
	"github.com/Alijeyrad/scheduleease/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	h *handler.UserHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)
	users.Put("/:id/password-setup", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), h.SendPasswordSetupEmail)
}
