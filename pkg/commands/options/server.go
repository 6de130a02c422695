package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/config"
)

// ServerOptions
type ServerOptions struct {
	Server   string
	Password string
}

// AddServerArgs registers the store flags. Their names match the config
// keys so config.Load picks them up.
func AddServerArgs(cmd *cobra.Command, o *ServerOptions) {
	cmd.PersistentFlags().StringVar(&o.Server, config.KeyServer, config.DefaultServer,
		"Store base URL, or file:// path to a state file.")
	cmd.PersistentFlags().StringVar(&o.Password, config.KeyPassword, "",
		"Admin password (X-Admin-Password).")
}
