package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/internal/service/notification"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

const (
	notificationQueue   = "notification_worker"
	notificationTimeout = 30 * time.Second
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	var sub *nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			sub, err = startNotificationWorker(p.NC, p.NotifSvc)
			return err
		},
		OnStop: func(ctx context.Context) error {
			// The connection itself is drained by ProvideNatsClient.
			if sub == nil {
				return nil
			}
			return sub.Unsubscribe()
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker fans appointment events out to participants. The
// queue group keeps one delivery per event across replicas.
func startNotificationWorker(nc *nats.Conn, notifSvc notification.Service) (*nats.Subscription, error) {
	subject := constants.SubjectAppointmentPrefix + ".>"
	sub, err := nc.QueueSubscribe(subject, notificationQueue, func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if err := handleAppointmentEvent(ctx, notifSvc, msg.Data); err != nil {
			slog.Warn("notification_worker: event not fully delivered",
				"subject", msg.Subject, "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("notification_worker: subscribe %s: %w", subject, err)
	}

	slog.Info("notification_worker: started", "subject", subject)
	return sub, nil
}

func handleAppointmentEvent(ctx context.Context, notifSvc notification.Service, data []byte) error {
	var ev appointment.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return notifSvc.NotifyParticipants(ctx, ev)
}
