package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/pkg/authorize"
)

// RequirePermission checks that one of the caller's realm roles grants
// action on resource.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if err := auth.MustEnforce(c.Context(), actor.Roles, resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
