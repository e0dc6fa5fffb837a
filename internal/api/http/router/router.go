package router

import (
	entsql "entgo.io/ent/dialect/sql"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/internal/api/http/handler"
	"github.com/Alijeyrad/scheduleease/internal/api/http/middleware"
	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/internal/service/auth"
	"github.com/Alijeyrad/scheduleease/internal/service/notification"
	"github.com/Alijeyrad/scheduleease/pkg/authorize"
	"github.com/Alijeyrad/scheduleease/pkg/database"
	"github.com/Alijeyrad/scheduleease/pkg/observability"
	redispkg "github.com/Alijeyrad/scheduleease/pkg/redis"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	DB              *entsql.Driver
	Auth            authorize.IAuthorization
	Verifier        middleware.TokenVerifier
	AppointmentSvc  appointment.Service
	AuthSvc         auth.Service
	NotificationSvc notification.Service
	Metrics         *observability.Lifecycle `optional:"true"`
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	authRequired := middleware.AuthRequired(r.p.Verifier)
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	userH := handler.NewUserHandler(r.p.NotificationSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.Metrics)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH)
	r.registerUserRoutes(api, userH, authRequired, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return database.Ping(c.Context(), r.p.DB) == nil &&
				redispkg.Ping(c.Context(), r.p.Redis) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
