package logs

import (
	"log/slog"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	promconfig "github.com/prometheus/common/config"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/Alijeyrad/scheduleease/config"
)

const lokiPushPath = "/loki/api/v1/push"

// newLokiHandler batches records to Loki's push API. The returned stop
// flushes the pending batch and must be called on shutdown.
func newLokiHandler(lc config.LokiConfig, level slog.Level) (slog.Handler, func(), error) {
	cfg, err := loki.NewDefaultConfig(strings.TrimRight(lc.Endpoint, "/") + lokiPushPath)
	if err != nil {
		return nil, nil, err
	}
	if lc.Username != "" {
		cfg.Client.BasicAuth = &promconfig.BasicAuth{
			Username: lc.Username,
			Password: promconfig.Secret(lc.Password),
		}
	}

	client, err := loki.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	h := slogloki.Option{Level: level, Client: client}.NewLokiHandler()
	return h, client.Stop, nil
}
