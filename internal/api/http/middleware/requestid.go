package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/pkg/reqctx"
)

const HeaderRequestID = fiber.HeaderXRequestID

// RequestID keeps a well formed incoming X-Request-ID or issues a UUID, and
// echoes it on the response.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    HeaderRequestID,
		Generator: uuid.NewString,
	})
}

// RequestMeta copies the request id and client details into the request
// context for services and loggers. It must run after RequestID.
func RequestMeta() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := requestid.FromContext(c)
		// adaptor handlers only see the raw request headers
		c.Request().Header.Set(HeaderRequestID, rid)

		c.SetContext(reqctx.WithRequestMeta(c.Context(), &reqctx.RequestMeta{
			RequestID:   rid,
			ClientIP:    c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			RequestedAt: time.Now(),
		}))
		return c.Next()
	}
}
