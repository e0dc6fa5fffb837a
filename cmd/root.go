package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/scheduleease/cmd/http"
	systemcmd "github.com/Alijeyrad/scheduleease/cmd/system"
	"github.com/Alijeyrad/scheduleease/pkg/constants"
)

// Version is stamped at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Appointment scheduling backend",
		Version: Version,
		Long: `Schedule Ease books, reschedules, cancels and annotates appointments and
refuses double bookings across the participants' phone numbers and email
addresses.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "config.yaml", "Path to config.yaml; only its directory is searched")
	root.AddCommand(httpcmd.NewHTTPCommand(), systemcmd.NewSystemCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
