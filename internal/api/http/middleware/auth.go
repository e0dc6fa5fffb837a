package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
	"github.com/Alijeyrad/scheduleease/pkg/reqctx"
)

const LocalActor = "actor"

// TokenVerifier is satisfied by *keycloak.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*keycloak.Claims, error)
}

// AuthRequired validates a Bearer access token issued by Keycloak.
// On success the caller's claims are attached to the request context and a
// model.Actor is stored in c.Locals(LocalActor).
func AuthRequired(v TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}
		raw := strings.TrimSpace(parts[1])

		claims, err := v.Verify(c.Context(), raw)
		if err != nil {
			slog.DebugContext(c.Context(), "token rejected", slog.Any("error", err))
			return fiber.ErrUnauthorized
		}

		c.SetContext(reqctx.WithClaims(c.Context(), claims, raw))
		c.Locals(LocalActor, model.Actor{
			Subject:     claims.UserID(),
			DisplayName: claims.DisplayName(),
			Roles:       claims.Roles(),
			Token:       raw,
		})
		return c.Next()
	}
}

// ActorFromFiber returns the actor stored by AuthRequired.
func ActorFromFiber(c fiber.Ctx) (model.Actor, bool) {
	a, ok := c.Locals(LocalActor).(model.Actor)
	return a, ok && a.Subject != ""
}
