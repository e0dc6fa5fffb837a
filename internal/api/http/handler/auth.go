package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/service/auth"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// POST /api/v1/auth/token
func (h *AuthHandler) Token(c fiber.Ctx) error {
	var body auth.TokenRequest
	if err := c.Bind().JSON(&body); err != nil {
		return fail(c, badRequest("invalid request body"))
	}

	tok, err := h.svc.Token(c.Context(), body)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, tok)
}
