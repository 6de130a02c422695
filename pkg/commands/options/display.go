package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/config"
)

// DisplayOptions
type DisplayOptions struct {
	FPS      int
	Status   string
	Cache    string
	Log      string
	LogLevel string
}

func AddDisplayArgs(cmd *cobra.Command, o *DisplayOptions) {
	cmd.Flags().IntVar(&o.FPS, config.KeyFPS, config.DefaultFPS,
		"Ticker frame rate, 5 to 60.")
	cmd.Flags().StringVar(&o.Status, config.KeyStatus, "",
		"Serve /healthz and /status on this address, e.g. :8090.")
	cmd.Flags().StringVar(&o.Cache, config.KeyCache, config.DefaultCache,
		"Directory for cached media.")
	cmd.Flags().StringVar(&o.Log, config.KeyLog, config.DefaultLog,
		"Log file. The terminal belongs to the display.")
	cmd.Flags().StringVar(&o.LogLevel, config.KeyLogLevel, config.DefaultLogLevel,
		"Log level: debug, info, warn or error.")
}
