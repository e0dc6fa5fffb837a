package app

import (
	"context"
	"log/slog"
	"net/http"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/internal/api/http/middleware"
	svcfile "github.com/Alijeyrad/scheduleease/internal/service/file"
	"github.com/Alijeyrad/scheduleease/internal/store"
	"github.com/Alijeyrad/scheduleease/pkg/authorize"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
	"github.com/Alijeyrad/scheduleease/pkg/database"
	"github.com/Alijeyrad/scheduleease/pkg/email"
	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
	"github.com/Alijeyrad/scheduleease/pkg/observability"
	redispkg "github.com/Alijeyrad/scheduleease/pkg/redis"
	"github.com/Alijeyrad/scheduleease/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDriver),
	fx.Provide(ProvideRepository),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideLifecycleMetrics),
	fx.Provide(ProvideFileStore),
	fx.Provide(ProvideKeycloakClient),
	fx.Provide(
		fx.Annotate(ProvideTokenVerifier, fx.As(new(middleware.TokenVerifier))),
	),
	fx.Provide(ProvideNatsClient),
)

func ProvideDriver(lc fx.Lifecycle, cfg *config.Config) (*entsql.Driver, error) {
	drv, err := database.NewDriver(context.Background(), cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			slog.Debug("running automatic schema migration")
			return database.Migrate(ctx, drv, database.FromCentralConfig(cfg.Database))
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return drv.Close()
		},
	})
	return drv, nil
}

func ProvideRepository(drv *entsql.Driver, cfg *config.Config) store.Repository {
	var opts []store.Option
	if dc := database.FromCentralConfig(cfg.Database); dc.EnableLogging {
		opts = append(opts, store.WithSlowQueryLog(dc.SlowQueryThreshold))
	}
	return store.New(drv, opts...)
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.IAuthorization, error) {
	acfg := authorize.FromCentralConfig(cfg.Authorization)
	dsn := database.NewDSN(cfg.CasbinDatabase)
	enforcer, err := authorize.NewEnforcer(acfg, dsn)
	if err != nil {
		return nil, err
	}
	if acfg.WatchPolicies {
		stop, err := authorize.WatchPolicies(context.Background(), enforcer, dsn, acfg.PolicyChannel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(func() {
			slog.Debug("closing casbin policy watcher")
			stop()
		}))
	}
	baseAuth, err := authorize.NewAuthorization(enforcer, acfg)
	if err != nil {
		return nil, err
	}
	if !acfg.EnableAudit {
		return baseAuth, nil
	}
	return authorize.NewAuditedAuthorization(baseAuth, slog.Default()), nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

func ProvideFileStore(cfg *config.Config) (svcfile.Store, error) {
	return svcfile.New(context.Background(), cfg)
}

func keycloakHTTPClient(kc keycloak.Config) *http.Client {
	return &http.Client{Timeout: kc.Timeout}
}

func ProvideKeycloakClient(cfg *config.Config) (*keycloak.Client, error) {
	kc := keycloak.FromCentralConfig(cfg.Keycloak)
	return keycloak.NewClient(kc, keycloakHTTPClient(kc))
}

func ProvideTokenVerifier(cfg *config.Config) (*keycloak.Verifier, error) {
	kc := keycloak.FromCentralConfig(cfg.Keycloak)
	return keycloak.NewVerifier(kc, keycloakHTTPClient(kc))
}

func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	url := cfg.Nats.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name(constants.AppName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideLifecycleMetrics depends on the provider so the counter is created
// against the configured meter provider. Nil when telemetry is off.
func ProvideLifecycleMetrics(p *observability.Provider) (*observability.Lifecycle, error) {
	if p == nil {
		return nil, nil
	}
	return observability.NewLifecycle()
}
