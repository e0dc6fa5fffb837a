package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler) {
	group := api.Group("/auth")
	group.Post("/token", h.Token)
}
