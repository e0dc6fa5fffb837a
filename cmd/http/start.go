package http

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/scheduleease/config"
	apihttp "github.com/Alijeyrad/scheduleease/internal/api/http"
	"github.com/Alijeyrad/scheduleease/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		port            int
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the API and run the notification worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(path))
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, flush := logs.New(cfg)
			defer flush()
			slog.SetDefault(logger)
			logger.Info("starting", "port", cfg.Server.Port, "env", cfg.Server.Environment)

			return apihttp.Start(cfg, shutdownTimeout)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Time allowed for in-flight requests and workers to finish")
	cmd.Flags().IntVar(&port, "port", 0, "Override server.port")
	return cmd
}
