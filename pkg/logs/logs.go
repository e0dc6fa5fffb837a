// Package logs builds the process slog.Logger: JSON or text to stdout,
// rotated files and Loki, with request and trace ids lifted from the context.
package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

// New builds a logger from config and returns a flush func for shutdown.
// Stdout is used when nothing else is enabled so that logs are never
// silently dropped. A Loki endpoint that cannot be set up falls back to
// stdout as well.
func New(cfg *config.Config) (*slog.Logger, func()) {
	level := parseLevel(cfg.Logging.Level)
	out := cfg.Logging.Output
	stop := func() {}

	var (
		handlers []slog.Handler
		lokiErr  error
	)
	if out.Loki.Enabled {
		h, flush, err := newLokiHandler(out.Loki, level)
		if err != nil {
			lokiErr = err
			out.Loki.Enabled = false
		} else {
			handlers = append(handlers, h)
			stop = flush
		}
	}
	if w := localWriter(out); w != nil {
		handlers = append(handlers, localHandler(cfg, w, level))
	}

	service := cfg.Observability.ServiceName
	if service == "" {
		service = constants.AppName
	}
	logger := slog.New(newContextHandler(slogmulti.Fanout(handlers...))).With(
		slog.String("service", service),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
	if lokiErr != nil {
		logger.Warn("loki output disabled", slog.Any("error", lokiErr))
	}
	return logger, stop
}

func localWriter(out config.OutputConfig) io.Writer {
	var writers []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		writers = append(writers, os.Stdout)
	}
	if out.File.Enabled {
		writers = append(writers, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}
	switch len(writers) {
	case 0:
		return nil
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

// localHandler writes text only in development when asked to; production
// always gets JSON.
func localHandler(cfg *config.Config, w io.Writer, level slog.Level) slog.Handler {
	isDev := strings.EqualFold(cfg.Server.Environment, "development")
	opts := &slog.HandlerOptions{Level: level, AddSource: isDev}
	if isDev && strings.EqualFold(cfg.Logging.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
