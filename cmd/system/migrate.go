package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/scheduleease/pkg/authorize"
	"github.com/Alijeyrad/scheduleease/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed RBAC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
			defer cancel()

			// appointment db
			cmd.Println("migrating appointment schema")
			drv, err := database.NewDriver(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer drv.Close()

			if err := database.Migrate(ctx, drv, database.FromCentralConfig(cfg.Database)); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			// casbin db, the ent adapter creates its own table
			cmd.Println("preparing casbin policy store")
			acfg := authorize.FromCentralConfig(cfg.Authorization)
			enforcer, err := authorize.NewEnforcer(acfg, database.NewDSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}

			auth, err := authorize.NewAuthorization(enforcer, acfg)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			cmd.Println("seeding default policies")
			if err := authorize.SeedDefaultPolicies(ctx, auth, slog.Default()); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			cmd.Println("migrations complete")
			return nil
		},
	}

	return cmd
}
