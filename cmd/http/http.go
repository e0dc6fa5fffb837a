// Package http wires the API server into the CLI.
package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "http",
		Aliases: []string{"api"},
		Short:   "Run the appointment HTTP API",
		Long: `Run the appointment HTTP API together with the notification worker
that consumes appointment events from NATS.`,
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
