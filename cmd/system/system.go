// Package system holds the operator commands that run outside the server:
// database bootstrap, schema migration and CLI docs.
package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/scheduleease/config"
)

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Database bootstrap, migrations and tooling",
	}
	cmd.AddCommand(NewInitCommand(), NewMigrateCommand(), NewGenDocsCommand())
	return cmd
}

// loadConfig reads the file named by the root --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}
