package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/runner/display"
	"tableflip.dev/kiosk/pkg/runner/state"
)

func addState(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Fetch the current snapshot and print a summary.",
		Example: `
kiosk state
kiosk state --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			src, err := display.NewSource(cfg.Server(), cfg.Password())
			if err != nil {
				return oo.HandleError(err)
			}
			s := state.State{
				Source: src,
				JSON:   oo.JSON,
				ShowID: io.ShowID,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
