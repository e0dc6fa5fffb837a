package app

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/internal/service/auth"
	svcfile "github.com/Alijeyrad/scheduleease/internal/service/file"
	"github.com/Alijeyrad/scheduleease/internal/service/notification"
	"github.com/Alijeyrad/scheduleease/internal/store"
	"github.com/Alijeyrad/scheduleease/pkg/email"
	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
	"github.com/Alijeyrad/scheduleease/pkg/sms"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAppointmentService,
		ProvideAuthService,
		ProvideNotificationService,
	),
)

func ProvideAppointmentService(
	repo store.Repository,
	files svcfile.Store,
	nc *nats.Conn,
	cfg *config.Config,
) appointment.Service {
	return appointment.New(repo, files, nc, slog.Default(),
		appointment.FromCentralConfig(cfg.Appointment, cfg.Email.From))
}

func ProvideAuthService(kc *keycloak.Client, rdb *redis.Client) auth.Service {
	return auth.New(kc, auth.NewRedisAttempts(rdb), slog.Default())
}

func ProvideNotificationService(
	mail *email.Client,
	smsCli *sms.Client,
	kc *keycloak.Client,
	cfg *config.Config,
) notification.Service {
	return notification.New(mail, smsCli, kc, slog.Default(), notification.Config{
		Organizer:   cfg.Email.From,
		PhoneRegion: cfg.Appointment.DefaultPhoneRegion,
		Location:    cfg.Appointment.Location(),
	})
}
