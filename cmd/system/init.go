package system

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/scheduleease/pkg/database"
)

func NewInitCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the appointment and casbin databases listed in server.databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
			defer cancel()

			created, err := database.InitializeDatabases(ctx, cfg)
			for _, name := range created {
				cmd.Printf("created database %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(created) == 0 {
				cmd.Println("all databases already exist")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Time allowed for connecting and creating databases")
	return cmd
}

// commandContext falls back to Background when cobra was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
