package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/internal/api/http/handler"
	"github.com/Alijeyrad/scheduleease/internal/api/http/middleware"
	"github.com/Alijeyrad/scheduleease/internal/api/http/router"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
	"github.com/Alijeyrad/scheduleease/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

// appConfig derives the fiber settings from the server section.
func appConfig(cfg config.ServerConfig) fiber.Config {
	fc := fiber.Config{
		AppName:      constants.AppName,
		ErrorHandler: handler.ErrorHandler,
	}
	if cfg.BodyLimitBytes > 0 {
		fc.BodyLimit = cfg.BodyLimitBytes
	}
	if cfg.TimeoutSeconds > 0 {
		fc.ReadTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		fc.WriteTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return fc
}

func NewServer(p Params) *fiber.App {
	app := fiber.New(appConfig(p.Cfg.Server))

	app.Use(middleware.RequestID(), middleware.RequestMeta())
	if p.OTel != nil && p.Cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware(p.Cfg.Observability.ServiceName))
	}

	configureGlobalMiddleware(app, p.Cfg, p.Redis)

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// configureGlobalMiddleware installs the stack shared by every route. The
// access log sits before the limiter so rejected requests are logged too.
func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client) {
	app.Use(recoverer.New(recoverer.Config{EnableStackTrace: cfg.Server.Environment == "development"}))
	app.Use(logger.New(logger.Config{
		Format: "${ip} ${method} ${path} ${status} ${latency} req_id=${reqHeader:" + middleware.HeaderRequestID + "}\n",
	}))

	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(corsConfig(cfg.Server.CORS)))
	}
	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
	}
	if cfg.Server.RateLimit.Enabled {
		app.Use(middleware.NewLimiterWithRedis(rdb, cfg.Server.RateLimit))
	}
}

func corsConfig(c config.CORSConfig) cors.Config {
	return cors.Config{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAgeSeconds,
	}
}
