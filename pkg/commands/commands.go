package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/config"
)

var (
	oo = &options.OutputOptions{}
	so = &options.ServerOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: base.Wrap80("Terminal display for the Infotafel store: carousel, text panel, info column and ticker."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addDisplay(topLevel)
	addState(topLevel)
	addAdmin(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}
