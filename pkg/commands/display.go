package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/runner/display"
)

func addDisplay(topLevel *cobra.Command) {
	do := &options.DisplayOptions{}

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Run the full screen display.",
		Long: `Run the full screen display.

Keys: q quits, r refreshes from the store, d toggles the event log.`,
		Example: `
kiosk display --server http://infotafel.local:8000
kiosk display --server file:///srv/infotafel/state.json --status :8090
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			d := display.Display{Config: cfg}
			return d.Do(cmd.Context())
		},
	}

	options.AddDisplayArgs(cmd, do)
	topLevel.AddCommand(cmd)
}
