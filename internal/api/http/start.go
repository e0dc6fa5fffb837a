package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/internal/api/http/router"
	"github.com/Alijeyrad/scheduleease/internal/app"
)

// Options is the full dependency graph of the API process.
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,
		// the listener hook lives in NewServer
		fx.Invoke(func(*fiber.App) {}),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			fl := &fxevent.SlogLogger{Logger: l}
			fl.UseLogLevel(slog.LevelDebug)
			return fl
		}),
	)
}

// Start runs the API until SIGINT or SIGTERM and then stops within timeout.
func Start(cfg *config.Config, timeout time.Duration) error {
	fxApp := fx.New(
		fx.Supply(slog.Default()),
		Options(cfg),
		fx.StopTimeout(timeout),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}

	sig := <-fxApp.Wait()
	slog.Info("shutting down", "signal", sig.Signal)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), timeout)
	defer cancelStop()
	return fxApp.Stop(stopCtx)
}
